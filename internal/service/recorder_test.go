package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

func TestViewRecorder_DrainsOnStop(t *testing.T) {
	e := newEnv(t)
	u := testutil.User(t, e.db, "u1")
	v := testutil.Video(t, e.db, u, "v", true)

	rec := NewViewRecorder(e.stores.Videos, e.stores.Users, 64)
	for i := 0; i < 10; i++ {
		rec.RecordView(v.ID, "")
	}
	assert.Equal(t, 10, rec.QueueLen())

	stop := rec.Start(3)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
	assert.Zero(t, rec.QueueLen())

	got, err := e.stores.Videos.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Views)
	assert.Zero(t, e.count(t, &model.WatchEntry{}, "video_id = ?", v.ID), "anonymous views skip history")
}

func TestViewRecorder_DropsWhenFull(t *testing.T) {
	e := newEnv(t)
	rec := NewViewRecorder(e.stores.Videos, e.stores.Users, 2)
	for i := 0; i < 5; i++ {
		rec.RecordView(testutil.ID(), testutil.ID())
	}
	assert.Equal(t, 2, rec.QueueLen())
}
