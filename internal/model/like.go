package model

import (
	"errors"
	"time"
)

// TargetKind 关系目标类型
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
	TargetChannel TargetKind = "channel"
)

func (k TargetKind) Likeable() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

func (k TargetKind) Valid() bool { return k.Likeable() || k == TargetChannel }

var ErrInvalidLikeTarget = errors.New("like target must be exactly one of video, comment or tweet")

// LikeTarget 点赞目标，视频 / 评论 / 动态三选一。零值不可用于建立点赞。
type LikeTarget struct {
	kind TargetKind
	id   string
}

func VideoTarget(id string) LikeTarget   { return LikeTarget{kind: TargetVideo, id: id} }
func CommentTarget(id string) LikeTarget { return LikeTarget{kind: TargetComment, id: id} }
func TweetTarget(id string) LikeTarget   { return LikeTarget{kind: TargetTweet, id: id} }

// NewLikeTarget 校验 kind 与 id 后构造目标
func NewLikeTarget(kind TargetKind, id string) (LikeTarget, error) {
	if !kind.Likeable() || id == "" {
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	return LikeTarget{kind: kind, id: id}, nil
}

func (t LikeTarget) Kind() TargetKind { return t.kind }
func (t LikeTarget) ID() string       { return t.id }
func (t LikeTarget) IsZero() bool     { return t.kind == "" || t.id == "" }

// Like 点赞关系
type Like struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LikedBy    string     `json:"likedBy" gorm:"type:varchar(36);not null;uniqueIndex:ux_like_target"`
	TargetKind TargetKind `json:"targetKind" gorm:"type:varchar(16);not null;uniqueIndex:ux_like_target;index:idx_like_kind_target"`
	TargetID   string     `json:"targetId" gorm:"type:varchar(36);not null;uniqueIndex:ux_like_target;index:idx_like_kind_target"`
	// 复合唯一键，避免重复点赞
	// ux_like_target = (liked_by, target_kind, target_id)
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }

// NewLike 只能从合法的 LikeTarget 构造
func NewLike(id, likedBy string, target LikeTarget) (*Like, error) {
	if target.IsZero() {
		return nil, ErrInvalidLikeTarget
	}
	return &Like{ID: id, LikedBy: likedBy, TargetKind: target.kind, TargetID: target.id}, nil
}

func (l *Like) Target() LikeTarget { return LikeTarget{kind: l.TargetKind, id: l.TargetID} }
