package service

import (
	"time"

	"github.com/d60-Lab/vidtube/internal/model"
)

// OwnerSummary 对外公开的用户字段，不含邮箱与密码
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

func summarize(id string, u *model.User) OwnerSummary {
	if u == nil {
		return OwnerSummary{ID: id}
	}
	return OwnerSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// ChannelOwner 视频详情中的频道信息，订阅状态相对当前查看者
type ChannelOwner struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

type VideoDetail struct {
	ID          string       `json:"id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Views       int64        `json:"views"`
	Duration    float64      `json:"duration"`
	CreatedAt   time.Time    `json:"createdAt"`
	LikesCount  int64        `json:"likesCount"`
	IsLiked     bool         `json:"isLiked"`
	Owner       ChannelOwner `json:"owner"`
}

type CommentItem struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

type TweetItem struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

// ChannelStats 各项在无数据时为 0
type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalViews       int64 `json:"totalViews"`
	TotalVideos      int64 `json:"totalVideos"`
}

// VideoCard 列表中的视频字段
type VideoCard struct {
	ID          string    `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

func card(v *model.Video) VideoCard {
	return VideoCard{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		CreatedAt:   v.CreatedAt,
	}
}

type VideoItem struct {
	VideoCard
	Owner OwnerSummary `json:"owner"`
}

// ChannelVideo 频道主自己的视频，含未发布
type ChannelVideo struct {
	VideoCard
	IsPublished bool  `json:"isPublished"`
	LikesCount  int64 `json:"likesCount"`
}

type SubscriptionFeed struct {
	Channels []OwnerSummary `json:"channels"`
	Videos   []VideoItem    `json:"videos"`
}

type Subscriber struct {
	OwnerSummary
	Email string `json:"email"`
}

type ChannelSubscribers struct {
	Subscribers []Subscriber `json:"subscribers"`
	Count       int          `json:"count"`
}

type PlaylistDetail struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	TotalVideos int          `json:"totalVideos"`
	Videos      []VideoCard  `json:"videos"`
	Owner       OwnerSummary `json:"owner"`
}

type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int64     `json:"totalVideos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoListQuery 视频列表的可选过滤与排序
type VideoListQuery struct {
	UserID   string
	Query    string
	SortBy   string
	SortType string // asc | desc
}
