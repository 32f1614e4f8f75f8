package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// GetByLogin 按用户名或邮箱查找
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	// AddToWatchHistory 集合语义追加，已存在时不变
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	// ListWatchHistory 按观看顺序返回仍存在的已发布视频
	ListWatchHistory(ctx context.Context, userID string) ([]*model.Video, error)
	RemoveFromAllWatchHistories(ctx context.Context, videoID string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return wrap("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	var res []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, wrap("get users", err)
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, wrap("user exists", err)
	}
	return cnt > 0, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&cnt).Error
	if err != nil {
		return false, wrap("user exists by name", err)
	}
	return cnt > 0, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&u).Error; err != nil {
		return nil, wrap("get user by login", err)
	}
	return &u, nil
}

func (r *userRepository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	e := &model.WatchEntry{ID: uuid.New().String(), UserID: userID, VideoID: videoID}
	return wrap("add watch history", r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e).Error)
}

func (r *userRepository) ListWatchHistory(ctx context.Context, userID string) ([]*model.Video, error) {
	var res []*model.Video
	err := r.db.WithContext(ctx).
		Table("watch_history").
		Select("videos.*").
		Joins("JOIN videos ON videos.id = watch_history.video_id").
		Where("watch_history.user_id = ? AND videos.is_published = ?", userID, true).
		Order("watch_history.created_at ASC, watch_history.id ASC").
		Scan(&res).Error
	return res, wrap("list watch history", err)
}

func (r *userRepository) RemoveFromAllWatchHistories(ctx context.Context, videoID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.WatchEntry{})
	return res.RowsAffected, wrap("remove watch history", res.Error)
}
