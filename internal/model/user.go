package model

import "time"

// User 用户（频道）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(64);uniqueIndex:ux_users_username;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex:ux_users_email;not null"`
	FullName     string    `json:"fullName" gorm:"type:varchar(128)"`
	Avatar       string    `json:"avatar" gorm:"type:varchar(512)"`
	CoverImage   string    `json:"coverImage,omitempty" gorm:"type:varchar(512)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// WatchEntry 观看历史，(user_id, video_id) 唯一，按 created_at 保持观看顺序
type WatchEntry struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_watch_user_video;index:idx_watch_user_created"`
	VideoID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_watch_user_video;index:idx_watch_video"`
	CreatedAt time.Time `gorm:"index:idx_watch_user_created"`
}

func (WatchEntry) TableName() string { return "watch_history" }
