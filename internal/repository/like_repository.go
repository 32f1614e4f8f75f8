package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

// LikeRepository 点赞关系，(liked_by, target_kind, target_id) 唯一
type LikeRepository interface {
	// Insert 冲突时不报错，created 表示本次是否真正写入
	Insert(ctx context.Context, like *model.Like) (created bool, err error)
	// Delete 按关系键删除，removed 表示是否删除了行
	Delete(ctx context.Context, likedBy string, target model.LikeTarget) (removed bool, err error)
	Find(ctx context.Context, likedBy string, target model.LikeTarget) (*model.Like, error)
	Exists(ctx context.Context, likedBy string, target model.LikeTarget) (bool, error)
	Count(ctx context.Context, target model.LikeTarget) (int64, error)
	// DeleteByTargets 级联删除，重复执行是无害的
	DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) keyed(ctx context.Context, likedBy string, target model.LikeTarget) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", likedBy, string(target.Kind()), target.ID())
}

func (r *likeRepository) Insert(ctx context.Context, like *model.Like) (bool, error) {
	// 幂等：唯一键冲突视为已存在
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, wrap("insert like", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *likeRepository) Delete(ctx context.Context, likedBy string, target model.LikeTarget) (bool, error) {
	res := r.keyed(ctx, likedBy, target).Delete(&model.Like{})
	if res.Error != nil {
		return false, wrap("delete like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Find(ctx context.Context, likedBy string, target model.LikeTarget) (*model.Like, error) {
	var l model.Like
	if err := r.keyed(ctx, likedBy, target).First(&l).Error; err != nil {
		return nil, wrap("find like", err)
	}
	return &l, nil
}

func (r *likeRepository) Exists(ctx context.Context, likedBy string, target model.LikeTarget) (bool, error) {
	var cnt int64
	if err := r.keyed(ctx, likedBy, target).Model(&model.Like{}).Count(&cnt).Error; err != nil {
		return false, wrap("like exists", err)
	}
	return cnt > 0, nil
}

func (r *likeRepository) Count(ctx context.Context, target model.LikeTarget) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_kind = ? AND target_id = ?", string(target.Kind()), target.ID()).
		Count(&cnt).Error
	return cnt, wrap("count likes", err)
}

func (r *likeRepository) DeleteByTargets(ctx context.Context, kind model.TargetKind, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id IN ?", string(kind), ids).
		Delete(&model.Like{})
	return res.RowsAffected, wrap("delete likes by targets", res.Error)
}
