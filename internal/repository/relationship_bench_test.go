package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []*model.User {
	users := make([]*model.User, n)
	for i := range users {
		users[i] = testutil.User(b, db, fmt.Sprintf("u%04d", i))
	}
	return users
}

func BenchmarkLikeInsertDelete(b *testing.B) {
	db := testutil.NewDB(b)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	users := seedBenchUsers(b, db, 200)
	videos := make([]*model.Video, 50)
	for i := range videos {
		videos[i] = testutil.Video(b, db, users[i], fmt.Sprintf("v%03d", i), true)
	}

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		by := users[rng.Intn(len(users))].ID
		target := model.VideoTarget(videos[rng.Intn(len(videos))].ID)
		// 删除失败再插入，即一次 toggle
		if removed, _ := likes.Delete(ctx, by, target); removed {
			continue
		}
		l, _ := model.NewLike(testutil.ID(), by, target)
		_, _ = likes.Insert(ctx, l)
	}
}

func BenchmarkViewerRelativeQueries(b *testing.B) {
	db := testutil.NewDB(b)
	videos := NewVideoRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	// 一个视频有 N 条评论，每条评论被若干用户点赞
	const N = 500
	users := seedBenchUsers(b, db, 50)
	owner := users[0]
	v := testutil.Video(b, db, owner, "hot", true)
	for i := 0; i < N; i++ {
		c := testutil.Comment(b, db, users[i%len(users)], v, fmt.Sprintf("c%d", i))
		for j := 0; j < i%5; j++ {
			testutil.Like(b, db, users[(i+j)%len(users)], model.CommentTarget(c.ID))
		}
	}
	for _, u := range users {
		testutil.Like(b, db, u, model.VideoTarget(v.ID))
	}

	b.ResetTimer()
	b.Run("VideoDetail", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = videos.Detail(ctx, v.ID, users[i%len(users)].ID)
		}
	})

	b.Run("CommentFeedPage", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Paginate[CommentRow](comments.FeedQuery(ctx, v.ID, owner.ID), NewPageRequest(1+i%10, 20))
		}
	})
}
