package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

// TweetRow 动态及其点赞派生列
type TweetRow struct {
	model.Tweet
	LikesCount int64
	IsLiked    bool
}

type TweetRepository interface {
	Create(ctx context.Context, t *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, ownerID, viewerID string) ([]TweetRow, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	return wrap("create tweet", r.db.WithContext(ctx).Create(t).Error)
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, wrap("get tweet", err)
	}
	return &t, nil
}

func (r *tweetRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, wrap("tweet exists", err)
	}
	return cnt > 0, nil
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id, content string) (*model.Tweet, error) {
	res := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, wrap("update tweet", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *tweetRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tweet{})
	return res.RowsAffected > 0, wrap("delete tweet", res.Error)
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID, viewerID string) ([]TweetRow, error) {
	cols, args := likeColumns(model.TargetTweet, "tweets", viewerID)
	var rows []TweetRow
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).
		Select("tweets.*, "+cols, args...).
		Where("tweets.owner_id = ?", ownerID).
		Order("tweets.created_at DESC, tweets.id DESC").
		Scan(&rows).Error
	return rows, wrap("list tweets", err)
}
