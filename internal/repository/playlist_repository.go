package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

// PlaylistRow 播放列表及视频数
type PlaylistRow struct {
	model.Playlist
	TotalVideos int64
}

type PlaylistRepository interface {
	Create(ctx context.Context, p *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Playlist, error)
	Delete(ctx context.Context, id string) (bool, error)
	// AddVideo 集合语义，已存在时不变
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	VideoIDs(ctx context.Context, playlistID string) ([]string, error)
	// ListVideos 按加入顺序返回列表中的视频，publishedOnly 时过滤未发布视频
	ListVideos(ctx context.Context, playlistID string, publishedOnly bool) ([]*model.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]PlaylistRow, error)
	DeleteMembers(ctx context.Context, playlistID string) (int64, error)
	RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error)
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository { return &playlistRepository{db: db} }

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	return wrap("create playlist", r.db.WithContext(ctx).Create(p).Error)
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrap("get playlist", err)
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Playlist, error) {
	res := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, wrap("update playlist", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *playlistRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Playlist{})
	return res.RowsAffected > 0, wrap("delete playlist", res.Error)
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	m := &model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID, Position: time.Now().UnixNano()}
	return wrap("add playlist video", r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error)
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	return wrap("remove playlist video", r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{}).Error)
}

func (r *playlistRepository) VideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Order("position ASC, video_id ASC").
		Pluck("video_id", &ids).Error
	return ids, wrap("list playlist video ids", err)
}

func (r *playlistRepository) ListVideos(ctx context.Context, playlistID string, publishedOnly bool) ([]*model.Video, error) {
	tx := r.db.WithContext(ctx).
		Table("playlist_videos").
		Select("videos.*").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Where("playlist_videos.playlist_id = ?", playlistID)
	if publishedOnly {
		// 过滤数组元素，不影响播放列表本身
		tx = tx.Where("videos.is_published = ?", true)
	}
	var res []*model.Video
	err := tx.Order("playlist_videos.position ASC, playlist_videos.video_id ASC").Scan(&res).Error
	return res, wrap("list playlist videos", err)
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]PlaylistRow, error) {
	var rows []PlaylistRow
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Select("playlists.*, (SELECT COUNT(*) FROM playlist_videos pv JOIN videos v ON v.id = pv.video_id WHERE pv.playlist_id = playlists.id) AS total_videos").
		Where("playlists.owner_id = ?", ownerID).
		Order("playlists.created_at DESC, playlists.id DESC").
		Scan(&rows).Error
	return rows, wrap("list playlists", err)
}

func (r *playlistRepository) DeleteMembers(ctx context.Context, playlistID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("playlist_id = ?", playlistID).Delete(&model.PlaylistVideo{})
	return res.RowsAffected, wrap("delete playlist members", res.Error)
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{})
	return res.RowsAffected, wrap("remove video from playlists", res.Error)
}
