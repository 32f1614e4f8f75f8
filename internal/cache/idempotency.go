package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pending 首次请求处理中
const pending = "-"

// IdempotencyStore 用 SET NX 抢占幂等键，TTL 内的重放返回首次结果
type IdempotencyStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func idemKey(key string) string { return "idem:" + key }

func (s *IdempotencyStore) Begin(ctx context.Context, key string) (bool, []byte, error) {
	ok, err := s.rdb.SetNX(ctx, idemKey(key), pending, s.ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}
	val, err := s.rdb.Get(ctx, idemKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// 首次结果刚好过期
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if string(val) == pending {
		return false, nil, nil
	}
	return false, val, nil
}

func (s *IdempotencyStore) Finish(ctx context.Context, key string, result []byte) error {
	return s.rdb.Set(ctx, idemKey(key), result, s.ttl).Err()
}

func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, idemKey(key)).Err()
}
