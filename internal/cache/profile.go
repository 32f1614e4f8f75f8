// Package cache holds the redis-backed read-through profile cache and the
// toggle idempotency store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

// ProfileCache 批量读取用户资料：先 MGET，缺失的一次性回源并回填
type ProfileCache struct {
	rdb   redis.UniversalClient
	users repository.UserRepository
	ttl   time.Duration

	bulkLoads atomic.Int64
}

func NewProfileCache(rdb redis.UniversalClient, users repository.UserRepository, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProfileCache{rdb: rdb, users: users, ttl: ttl}
}

func profileKey(id string) string { return fmt.Sprintf("user:profile:%s", id) }

func (c *ProfileCache) Load(ctx context.Context, ids []string) (map[string]*model.User, error) {
	ids = dedupe(ids)
	res := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		// redis 故障时直接回源
		logger.Warn("profile cache mget failed", zap.Error(err))
		vals = make([]interface{}, len(ids))
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var u model.User
		if json.Unmarshal([]byte(str), &u) == nil {
			res[ids[i]] = &u
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := res[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return res, nil
	}

	c.bulkLoads.Add(1)
	users, err := c.users.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	pipe := c.rdb.Pipeline()
	for _, u := range users {
		// 命中与回源返回同一投影
		u.PasswordHash = ""
		res[u.ID] = u
		if payload, err := json.Marshal(u); err == nil {
			pipe.Set(ctx, profileKey(u.ID), payload, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("profile cache fill failed", zap.Error(err))
	}
	return res, nil
}

// Invalidate 资料变更后删除缓存
func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, profileKey(id)).Err()
}

// BulkLoads 回源次数
func (c *ProfileCache) BulkLoads() int64 { return c.bulkLoads.Load() }

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
