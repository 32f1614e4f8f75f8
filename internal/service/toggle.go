package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

type ToggleState string

const (
	StateCreated ToggleState = "created"
	StateRemoved ToggleState = "removed"
)

// ToggleResult 一次 toggle 的结果；Created 时带回关系行
type ToggleResult struct {
	State        ToggleState         `json:"state"`
	Like         *model.Like         `json:"like,omitempty"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

func (r *ToggleResult) Created() bool { return r.State == StateCreated }

type ToggleRequest struct {
	Kind     model.TargetKind
	TargetID string
	// IdempotencyKey 同一次点击的重试在 TTL 内返回首次结果
	IdempotencyKey string
}

// IdempotencyStore 记录 toggle 的首次结果。Begin 抢占 key，未抢到时返回已保存的结果（处理中则为空）。
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (claimed bool, prev []byte, err error)
	Finish(ctx context.Context, key string, result []byte) error
	Abort(ctx context.Context, key string) error
}

// ToggleManager 点赞 / 订阅的幂等开关
type ToggleManager interface {
	Toggle(ctx context.Context, actor model.Principal, req ToggleRequest) (*ToggleResult, error)
}

type ToggleOptions struct {
	AllowSelfSubscribe bool
	Idempotency        IdempotencyStore
}

type toggleManager struct {
	stores Stores
	opts   ToggleOptions
}

func NewToggleManager(stores Stores, opts ToggleOptions) ToggleManager {
	return &toggleManager{stores: stores, opts: opts}
}

func (m *toggleManager) Toggle(ctx context.Context, actor model.Principal, req ToggleRequest) (*ToggleResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, &Error{Kind: KindInvalidTarget, Msg: fmt.Sprintf("unsupported target kind %q", req.Kind)}
	}
	targetID, err := ParseID(string(req.Kind)+" id", req.TargetID)
	if err != nil {
		return nil, err
	}
	if err := m.checkTarget(ctx, actor, req.Kind, targetID); err != nil {
		return nil, err
	}
	if req.Kind == model.TargetChannel && targetID == actor.ID {
		if !m.opts.AllowSelfSubscribe {
			return nil, validation("cannot subscribe to your own channel")
		}
		logger.Info("self subscription toggled", zap.String("user", actor.ID))
	}

	if req.IdempotencyKey == "" || m.opts.Idempotency == nil {
		return m.apply(ctx, actor, req.Kind, targetID)
	}
	return m.applyOnce(ctx, actor, req.Kind, targetID, req.IdempotencyKey)
}

// checkTarget 草稿视频对非作者不可见
func (m *toggleManager) checkTarget(ctx context.Context, actor model.Principal, kind model.TargetKind, id string) error {
	var (
		ok  bool
		err error
	)
	switch kind {
	case model.TargetVideo:
		var v *model.Video
		v, err = m.stores.Videos.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			err = nil
		}
		ok = err == nil && v != nil && (v.IsPublished || v.OwnerID == actor.ID)
	case model.TargetComment:
		ok, err = m.stores.Comments.Exists(ctx, id)
	case model.TargetTweet:
		ok, err = m.stores.Tweets.Exists(ctx, id)
	case model.TargetChannel:
		ok, err = m.stores.Users.Exists(ctx, id)
	}
	if err != nil {
		return internal("check toggle target", err)
	}
	if !ok {
		return notFound(string(kind))
	}
	return nil
}

func (m *toggleManager) applyOnce(ctx context.Context, actor model.Principal, kind model.TargetKind, targetID, key string) (*ToggleResult, error) {
	scoped := fmt.Sprintf("toggle:%s:%s:%s:%s", actor.ID, kind, targetID, key)
	claimed, prev, err := m.opts.Idempotency.Begin(ctx, scoped)
	if err != nil {
		// 缓存不可用时退回唯一约束兜底
		logger.Warn("idempotency store unavailable", zap.String("key", scoped), zap.Error(err))
		return m.apply(ctx, actor, kind, targetID)
	}
	if !claimed {
		if len(prev) > 0 {
			var res ToggleResult
			if err := json.Unmarshal(prev, &res); err == nil {
				return &res, nil
			}
		}
		// 首次请求仍在处理中，返回当前关系状态
		return m.current(ctx, actor, kind, targetID)
	}

	res, err := m.apply(ctx, actor, kind, targetID)
	if err != nil {
		if aerr := m.opts.Idempotency.Abort(ctx, scoped); aerr != nil {
			logger.Warn("release idempotency key failed", zap.String("key", scoped), zap.Error(aerr))
		}
		return nil, err
	}
	if buf, merr := json.Marshal(res); merr == nil {
		if ferr := m.opts.Idempotency.Finish(ctx, scoped, buf); ferr != nil {
			logger.Warn("save idempotent toggle result failed", zap.String("key", scoped), zap.Error(ferr))
		}
	}
	return res, nil
}

// apply 先按关系键删除，未删除到再插入；插入冲突说明并发请求已创建，视为已创建
func (m *toggleManager) apply(ctx context.Context, actor model.Principal, kind model.TargetKind, targetID string) (*ToggleResult, error) {
	if kind == model.TargetChannel {
		return m.toggleSubscription(ctx, actor.ID, targetID)
	}
	target, err := model.NewLikeTarget(kind, targetID)
	if err != nil {
		return nil, ErrInvalidTarget
	}
	return m.toggleLike(ctx, actor.ID, target)
}

func (m *toggleManager) toggleLike(ctx context.Context, actorID string, target model.LikeTarget) (*ToggleResult, error) {
	removed, err := m.stores.Likes.Delete(ctx, actorID, target)
	if err != nil {
		return nil, internal("toggle like", err)
	}
	if removed {
		return &ToggleResult{State: StateRemoved}, nil
	}

	like, err := model.NewLike(uuid.New().String(), actorID, target)
	if err != nil {
		return nil, ErrInvalidTarget
	}
	created, err := m.stores.Likes.Insert(ctx, like)
	if err != nil {
		return nil, internal("toggle like", err)
	}
	if created {
		return &ToggleResult{State: StateCreated, Like: like}, nil
	}

	existing, err := m.stores.Likes.Find(ctx, actorID, target)
	if errors.Is(err, repository.ErrNotFound) {
		// 并发的另一次 toggle 已将其删除
		return &ToggleResult{State: StateRemoved}, nil
	}
	if err != nil {
		return nil, internal("toggle like", err)
	}
	return &ToggleResult{State: StateCreated, Like: existing}, nil
}

func (m *toggleManager) toggleSubscription(ctx context.Context, subscriberID, channelID string) (*ToggleResult, error) {
	removed, err := m.stores.Subscriptions.Delete(ctx, subscriberID, channelID)
	if err != nil {
		return nil, internal("toggle subscription", err)
	}
	if removed {
		return &ToggleResult{State: StateRemoved}, nil
	}

	sub := &model.Subscription{ID: uuid.New().String(), SubscriberID: subscriberID, ChannelID: channelID}
	created, err := m.stores.Subscriptions.Insert(ctx, sub)
	if err != nil {
		return nil, internal("toggle subscription", err)
	}
	if created {
		return &ToggleResult{State: StateCreated, Subscription: sub}, nil
	}

	existing, err := m.stores.Subscriptions.Find(ctx, subscriberID, channelID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ToggleResult{State: StateRemoved}, nil
	}
	if err != nil {
		return nil, internal("toggle subscription", err)
	}
	return &ToggleResult{State: StateCreated, Subscription: existing}, nil
}

func (m *toggleManager) current(ctx context.Context, actor model.Principal, kind model.TargetKind, targetID string) (*ToggleResult, error) {
	if kind == model.TargetChannel {
		sub, err := m.stores.Subscriptions.Find(ctx, actor.ID, targetID)
		if errors.Is(err, repository.ErrNotFound) {
			return &ToggleResult{State: StateRemoved}, nil
		}
		if err != nil {
			return nil, internal("load subscription", err)
		}
		return &ToggleResult{State: StateCreated, Subscription: sub}, nil
	}
	target, err := model.NewLikeTarget(kind, targetID)
	if err != nil {
		return nil, ErrInvalidTarget
	}
	like, err := m.stores.Likes.Find(ctx, actor.ID, target)
	if errors.Is(err, repository.ErrNotFound) {
		return &ToggleResult{State: StateRemoved}, nil
	}
	if err != nil {
		return nil, internal("load like", err)
	}
	return &ToggleResult{State: StateCreated, Like: like}, nil
}
