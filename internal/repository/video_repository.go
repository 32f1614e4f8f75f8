package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

// VideoRow 视频及其点赞派生列
type VideoRow struct {
	model.Video
	LikesCount int64
	IsLiked    bool
}

// VideoAggregate 频道视频聚合，空集合时各项为 0
type VideoAggregate struct {
	TotalVideos int64
	TotalViews  int64
	TotalLikes  int64
}

// VideoFilter 视频列表过滤条件
type VideoFilter struct {
	OwnerID       string
	Search        string
	SortBy        string // createdAt | views | duration | title
	Desc          bool
	PublishedOnly bool
}

// SortableVideoColumns 允许调用方排序的字段
var SortableVideoColumns = map[string]string{
	"createdAt": "videos.created_at",
	"views":     "videos.views",
	"duration":  "videos.duration",
	"title":     "videos.title",
}

type VideoRepository interface {
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Video, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, id string) error

	Detail(ctx context.Context, id, viewerID string) (*VideoRow, error)
	ListQuery(ctx context.Context, f VideoFilter) Query
	ListByOwnerWithLikes(ctx context.Context, ownerID, viewerID string) ([]VideoRow, error)
	ListLikedBy(ctx context.Context, userID string) ([]*model.Video, error)
	ListSubscribedFeed(ctx context.Context, subscriberID string, limit int) ([]*model.Video, error)
	AggregateByOwner(ctx context.Context, ownerID string) (*VideoAggregate, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository { return &videoRepository{db: db} }

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	return wrap("create video", r.db.WithContext(ctx).Create(v).Error)
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, wrap("get video", err)
	}
	return &v, nil
}

func (r *videoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, wrap("video exists", err)
	}
	return cnt > 0, nil
}

func (r *videoRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Video, error) {
	res := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, wrap("update video", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *videoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{})
	return res.RowsAffected > 0, wrap("delete video", res.Error)
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	return wrap("increment views", r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error)
}

func (r *videoRepository) Detail(ctx context.Context, id, viewerID string) (*VideoRow, error) {
	cols, args := likeColumns(model.TargetVideo, "videos", viewerID)
	var rows []VideoRow
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Select("videos.*, "+cols, args...).
		Where("videos.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("video detail", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *videoRepository) ListQuery(ctx context.Context, f VideoFilter) Query {
	base := r.db.WithContext(ctx).Model(&model.Video{})
	if f.PublishedOnly {
		base = base.Where("videos.is_published = ?", true)
	}
	if f.OwnerID != "" {
		base = base.Where("videos.owner_id = ?", f.OwnerID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?", pattern, pattern)
	}

	col, ok := SortableVideoColumns[f.SortBy]
	desc := f.Desc
	if !ok {
		col, desc = SortableVideoColumns["createdAt"], true
	}
	return Query{
		Base:    base,
		Project: func(tx *gorm.DB) *gorm.DB { return tx.Select("videos.*") },
		Sort:    Sort{Column: col, Desc: desc, IDColumn: "videos.id"},
	}
}

func (r *videoRepository) ListByOwnerWithLikes(ctx context.Context, ownerID, viewerID string) ([]VideoRow, error) {
	cols, args := likeColumns(model.TargetVideo, "videos", viewerID)
	var rows []VideoRow
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Select("videos.*, "+cols, args...).
		Where("videos.owner_id = ?", ownerID).
		Order("videos.created_at DESC, videos.id DESC").
		Scan(&rows).Error
	return rows, wrap("list channel videos", err)
}

func (r *videoRepository) ListLikedBy(ctx context.Context, userID string) ([]*model.Video, error) {
	var res []*model.Video
	err := r.db.WithContext(ctx).
		Table("likes").
		Select("videos.*").
		Joins("JOIN videos ON videos.id = likes.target_id").
		Where("likes.liked_by = ? AND likes.target_kind = ?", userID, string(model.TargetVideo)).
		Where("videos.is_published = ? OR videos.owner_id = ?", true, userID).
		Order("videos.created_at DESC, videos.id DESC").
		Scan(&res).Error
	return res, wrap("list liked videos", err)
}

func (r *videoRepository) ListSubscribedFeed(ctx context.Context, subscriberID string, limit int) ([]*model.Video, error) {
	var res []*model.Video
	tx := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("videos.*").
		Joins("JOIN videos ON videos.owner_id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ? AND videos.is_published = ?", subscriberID, true).
		Order("videos.created_at DESC, videos.id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Scan(&res).Error
	return res, wrap("list subscription feed", err)
}

func (r *videoRepository) AggregateByOwner(ctx context.Context, ownerID string) (*VideoAggregate, error) {
	agg := &VideoAggregate{}
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Select("COUNT(*) AS total_videos, COALESCE(SUM(views), 0) AS total_views").
		Where("owner_id = ?", ownerID).
		Scan(agg).Error
	if err != nil {
		return nil, wrap("aggregate channel videos", err)
	}

	// 各视频点赞数之和 = 指向该频道视频的点赞行数
	err = r.db.WithContext(ctx).
		Table("likes").
		Joins("JOIN videos ON videos.id = likes.target_id").
		Where("likes.target_kind = ? AND videos.owner_id = ?", string(model.TargetVideo), ownerID).
		Count(&agg.TotalLikes).Error
	if err != nil {
		return nil, wrap("aggregate channel likes", err)
	}
	return agg, nil
}
