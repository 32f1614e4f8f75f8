package model

import "time"

// Video 视频
type Video struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `json:"owner" gorm:"type:varchar(36);not null;index:idx_video_owner"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	VideoFile   string    `json:"videoFile" gorm:"type:varchar(512);not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"type:varchar(512);not null"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"isPublished" gorm:"not null;default:false;index:idx_video_published_created"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index:idx_video_published_created"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Video) TableName() string { return "videos" }

func (v *Video) OwnedBy() string { return v.OwnerID }
