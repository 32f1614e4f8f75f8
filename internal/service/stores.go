package service

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/repository"
)

// Stores 服务层依赖的全部仓储
type Stores struct {
	Users         repository.UserRepository
	Videos        repository.VideoRepository
	Comments      repository.CommentRepository
	Tweets        repository.TweetRepository
	Likes         repository.LikeRepository
	Subscriptions repository.SubscriptionRepository
	Playlists     repository.PlaylistRepository
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:         repository.NewUserRepository(db),
		Videos:        repository.NewVideoRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Tweets:        repository.NewTweetRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Subscriptions: repository.NewSubscriptionRepository(db),
		Playlists:     repository.NewPlaylistRepository(db),
	}
}
