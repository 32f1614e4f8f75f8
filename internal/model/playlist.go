package model

import "time"

// Playlist 播放列表
type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	OwnerID     string    `json:"owner" gorm:"type:varchar(36);not null;index:idx_playlist_owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Playlist) TableName() string { return "playlists" }

func (p *Playlist) OwnedBy() string { return p.OwnerID }

// PlaylistVideo 播放列表成员，(playlist_id, video_id) 唯一，Position 决定展示顺序
type PlaylistVideo struct {
	PlaylistID string    `gorm:"primaryKey;type:varchar(36)"`
	VideoID    string    `gorm:"primaryKey;type:varchar(36);index:idx_playlist_video_video"`
	Position   int64     `gorm:"not null;index:idx_playlist_video_position"`
	CreatedAt  time.Time
}

func (PlaylistVideo) TableName() string { return "playlist_videos" }
