package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

func TestSubscriptionRepository_InsertDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	alice := testutil.User(t, db, "alice")
	chan1 := testutil.User(t, db, "chan1")

	created, err := repo.Insert(ctx, &model.Subscription{ID: testutil.ID(), SubscriberID: alice.ID, ChannelID: chan1.ID})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Insert(ctx, &model.Subscription{ID: testutil.ID(), SubscriberID: alice.ID, ChannelID: chan1.ID})
	require.NoError(t, err)
	assert.False(t, created)

	cnt, err := repo.CountByChannel(ctx, chan1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)

	removed, err := repo.Delete(ctx, alice.ID, chan1.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := repo.Exists(ctx, alice.ID, chan1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriptionRepository_Lists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	alice := testutil.User(t, db, "alice")
	bob := testutil.User(t, db, "bob")
	chan1 := testutil.User(t, db, "chan1")
	chan2 := testutil.User(t, db, "chan2")

	testutil.Subscribe(t, db, alice, chan1)
	testutil.Subscribe(t, db, alice, chan2)
	testutil.Subscribe(t, db, bob, chan1)

	channels, err := repo.ListChannels(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	// 最近订阅在前
	assert.Equal(t, chan2.ID, channels[0].ID)
	assert.Equal(t, chan1.ID, channels[1].ID)

	subs, err := repo.ListSubscribers(ctx, chan1.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, bob.ID, subs[0].ID)
	assert.Equal(t, "alice@example.com", subs[1].Email)

	subs, err = repo.ListSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
