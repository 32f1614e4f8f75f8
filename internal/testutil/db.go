// Package testutil opens throwaway sqlite stores and seeds fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/database"
)

// NewDB 每个测试独立的内存库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只存在于单个连接上
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var seq atomic.Int64

// base 保证夹具时间戳严格递增
var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func next() (int64, time.Time) {
	n := seq.Add(1)
	return n, base.Add(time.Duration(n) * time.Second)
}

func ID() string { return uuid.New().String() }

func User(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	_, at := next()
	u := &model.User{
		ID:           ID(),
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		Avatar:       fmt.Sprintf("https://cdn.example.com/avatars/%s.png", username),
		PasswordHash: "x",
		CreatedAt:    at,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Video(t testing.TB, db *gorm.DB, owner *model.User, title string, published bool) *model.Video {
	t.Helper()
	_, at := next()
	v := &model.Video{
		ID:          ID(),
		OwnerID:     owner.ID,
		Title:       title,
		Description: title + " description",
		VideoFile:   "https://cdn.example.com/videos/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/thumbnails/" + title + ".png",
		Duration:    60,
		IsPublished: published,
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(v).Error)
	if !published {
		// gorm 会跳过零值 bool，显式写回
		require.NoError(t, db.Model(v).Update("is_published", false).Error)
	}
	return v
}

func Comment(t testing.TB, db *gorm.DB, owner *model.User, video *model.Video, content string) *model.Comment {
	t.Helper()
	_, at := next()
	c := &model.Comment{ID: ID(), Content: content, VideoID: video.ID, OwnerID: owner.ID, CreatedAt: at}
	require.NoError(t, db.Create(c).Error)
	return c
}

func Tweet(t testing.TB, db *gorm.DB, owner *model.User, content string) *model.Tweet {
	t.Helper()
	_, at := next()
	tw := &model.Tweet{ID: ID(), Content: content, OwnerID: owner.ID, CreatedAt: at}
	require.NoError(t, db.Create(tw).Error)
	return tw
}

func Playlist(t testing.TB, db *gorm.DB, owner *model.User, name string) *model.Playlist {
	t.Helper()
	_, at := next()
	p := &model.Playlist{ID: ID(), Name: name, Description: name + " description", OwnerID: owner.ID, CreatedAt: at}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Like(t testing.TB, db *gorm.DB, by *model.User, target model.LikeTarget) *model.Like {
	t.Helper()
	l, err := model.NewLike(ID(), by.ID, target)
	require.NoError(t, err)
	_, l.CreatedAt = next()
	require.NoError(t, db.Create(l).Error)
	return l
}

func Subscribe(t testing.TB, db *gorm.DB, subscriber, channel *model.User) *model.Subscription {
	t.Helper()
	_, at := next()
	s := &model.Subscription{ID: ID(), SubscriberID: subscriber.ID, ChannelID: channel.ID, CreatedAt: at}
	require.NoError(t, db.Create(s).Error)
	return s
}

func AddToPlaylist(t testing.TB, db *gorm.DB, p *model.Playlist, v *model.Video) {
	t.Helper()
	n, at := next()
	require.NoError(t, db.Create(&model.PlaylistVideo{PlaylistID: p.ID, VideoID: v.ID, Position: n, CreatedAt: at}).Error)
}

func Watch(t testing.TB, db *gorm.DB, u *model.User, v *model.Video) {
	t.Helper()
	_, at := next()
	require.NoError(t, db.Create(&model.WatchEntry{ID: ID(), UserID: u.ID, VideoID: v.ID, CreatedAt: at}).Error)
}
