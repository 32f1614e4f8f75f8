package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

// SubscriptionRepository 订阅关系，(subscriber_id, channel_id) 唯一
type SubscriptionRepository interface {
	Insert(ctx context.Context, sub *model.Subscription) (created bool, err error)
	Delete(ctx context.Context, subscriberID, channelID string) (removed bool, err error)
	Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
	// ListChannels 某用户订阅的频道
	ListChannels(ctx context.Context, subscriberID string) ([]*model.User, error)
	// ListSubscribers 某频道的订阅者
	ListSubscribers(ctx context.Context, channelID string) ([]*model.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) keyed(ctx context.Context, subscriberID, channelID string) *gorm.DB {
	return r.db.WithContext(ctx).Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID)
}

func (r *subscriptionRepository) Insert(ctx context.Context, sub *model.Subscription) (bool, error) {
	// 幂等：重复订阅不报错
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(sub)
	if res.Error != nil {
		return false, wrap("insert subscription", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	res := r.keyed(ctx, subscriberID, channelID).Delete(&model.Subscription{})
	if res.Error != nil {
		return false, wrap("delete subscription", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error) {
	var s model.Subscription
	if err := r.keyed(ctx, subscriberID, channelID).First(&s).Error; err != nil {
		return nil, wrap("find subscription", err)
	}
	return &s, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var cnt int64
	if err := r.keyed(ctx, subscriberID, channelID).Model(&model.Subscription{}).Count(&cnt).Error; err != nil {
		return false, wrap("subscription exists", err)
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&cnt).Error
	return cnt, wrap("count subscribers", err)
}

func (r *subscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.*").
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC, users.id DESC").
		Scan(&res).Error
	return res, wrap("list subscribed channels", err)
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.*").
		Joins("JOIN users ON users.id = subscriptions.subscriber_id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC, users.id DESC").
		Scan(&res).Error
	return res, wrap("list subscribers", err)
}
