package model

import "time"

// Tweet 动态
type Tweet struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	OwnerID   string    `json:"owner" gorm:"type:varchar(36);not null;index:idx_tweet_owner_created"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_tweet_owner_created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tweet) TableName() string { return "tweets" }

func (t *Tweet) OwnedBy() string { return t.OwnerID }
