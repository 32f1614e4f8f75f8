package model

import "time"

// Comment 视频评论
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	VideoID   string    `json:"video" gorm:"type:varchar(36);not null;index:idx_comment_video_created"`
	OwnerID   string    `json:"owner" gorm:"type:varchar(36);not null;index:idx_comment_owner"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_comment_video_created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) OwnedBy() string { return c.OwnerID }
