package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

// CommentRow 评论及其点赞派生列
type CommentRow struct {
	model.Comment
	LikesCount int64
	IsLiked    bool
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
	IDsByVideo(ctx context.Context, videoID string) ([]string, error)
	DeleteByVideo(ctx context.Context, videoID string) (int64, error)
	// FeedQuery 某视频下的评论，按时间倒序，可分页
	FeedQuery(ctx context.Context, videoID, viewerID string) Query
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return wrap("create comment", r.db.WithContext(ctx).Create(c).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, wrap("get comment", err)
	}
	return &c, nil
}

func (r *commentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, wrap("comment exists", err)
	}
	return cnt > 0, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, wrap("update comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	return res.RowsAffected > 0, wrap("delete comment", res.Error)
}

func (r *commentRepository) IDsByVideo(ctx context.Context, videoID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error
	return ids, wrap("list comment ids", err)
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.Comment{})
	return res.RowsAffected, wrap("delete comments by video", res.Error)
}

func (r *commentRepository) FeedQuery(ctx context.Context, videoID, viewerID string) Query {
	cols, args := likeColumns(model.TargetComment, "comments", viewerID)
	return Query{
		Base: r.db.WithContext(ctx).Model(&model.Comment{}).Where("comments.video_id = ?", videoID),
		Project: func(tx *gorm.DB) *gorm.DB {
			return tx.Select("comments.*, "+cols, args...)
		},
		Sort: Sort{Column: "comments.created_at", Desc: true, IDColumn: "comments.id"},
	}
}
