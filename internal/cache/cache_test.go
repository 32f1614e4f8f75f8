package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestProfileCache_ReadThrough(t *testing.T) {
	_, rdb := newRedis(t)
	db := testutil.NewDB(t)
	alice := testutil.User(t, db, "alice")
	bob := testutil.User(t, db, "bob")

	c := NewProfileCache(rdb, repository.NewUserRepository(db), time.Minute)
	ctx := context.Background()

	got, err := c.Load(ctx, []string{alice.ID, bob.ID, alice.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[alice.ID].Username)
	assert.Empty(t, got[alice.ID].PasswordHash, "password hash is never cached")
	assert.Equal(t, int64(1), c.BulkLoads())

	miss := *got[alice.ID]
	got, err = c.Load(ctx, []string{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, "bob", got[bob.ID].Username)
	assert.Equal(t, miss.PasswordHash, got[alice.ID].PasswordHash, "hit and miss return the same projection")
	assert.Equal(t, miss.Email, got[alice.ID].Email)
	assert.Equal(t, int64(1), c.BulkLoads(), "second load is served from redis")

	require.NoError(t, c.Invalidate(ctx, bob.ID))
	_, err = c.Load(ctx, []string{bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.BulkLoads())
}

func TestProfileCache_FallsBackWhenRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	db := testutil.NewDB(t)
	alice := testutil.User(t, db, "alice")
	c := NewProfileCache(rdb, repository.NewUserRepository(db), time.Minute)

	mr.Close()
	got, err := c.Load(context.Background(), []string{alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "alice", got[alice.ID].Username)
}

func TestIdempotencyStore(t *testing.T) {
	mr, rdb := newRedis(t)
	s := NewIdempotencyStore(rdb, 30*time.Second)
	ctx := context.Background()

	claimed, prev, err := s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Nil(t, prev)

	// 处理中的重放
	claimed, prev, err = s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Nil(t, prev)

	require.NoError(t, s.Finish(ctx, "k1", []byte(`{"state":"created"}`)))
	claimed, prev, err = s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.JSONEq(t, `{"state":"created"}`, string(prev))

	mr.FastForward(31 * time.Second)
	claimed, _, err = s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed, "key is reusable after ttl")

	require.NoError(t, s.Abort(ctx, "k1"))
	claimed, _, err = s.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, claimed)
}
