package model

import "time"

// Subscription 订阅关系（subscriber 订阅 channel）
type Subscription struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SubscriberID string `json:"subscriber" gorm:"type:varchar(36);not null;uniqueIndex:ux_subscription_pair;index:idx_subscription_subscriber"`
	ChannelID    string `json:"channel" gorm:"type:varchar(36);not null;uniqueIndex:ux_subscription_pair;index:idx_subscription_channel"`
	// 复合唯一键，避免重复订阅
	// ux_subscription_pair = (subscriber_id, channel_id)
	CreatedAt time.Time `json:"createdAt"`
}

func (Subscription) TableName() string { return "subscriptions" }
