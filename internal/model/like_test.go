package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLikeTarget(t *testing.T) {
	tg, err := NewLikeTarget(TargetComment, "c1")
	require.NoError(t, err)
	assert.Equal(t, TargetComment, tg.Kind())
	assert.Equal(t, "c1", tg.ID())

	_, err = NewLikeTarget(TargetChannel, "u1")
	assert.ErrorIs(t, err, ErrInvalidLikeTarget)
	_, err = NewLikeTarget("playlist", "p1")
	assert.ErrorIs(t, err, ErrInvalidLikeTarget)
	_, err = NewLikeTarget(TargetVideo, "")
	assert.ErrorIs(t, err, ErrInvalidLikeTarget)
}

func TestNewLikeRejectsZeroTarget(t *testing.T) {
	_, err := NewLike("l1", "u1", LikeTarget{})
	assert.ErrorIs(t, err, ErrInvalidLikeTarget)

	l, err := NewLike("l1", "u1", TweetTarget("t1"))
	require.NoError(t, err)
	assert.Equal(t, TweetTarget("t1"), l.Target())
	assert.Equal(t, TargetTweet, l.TargetKind)
}

func TestTargetKind(t *testing.T) {
	assert.True(t, TargetVideo.Likeable())
	assert.False(t, TargetChannel.Likeable())
	assert.True(t, TargetChannel.Valid())
	assert.False(t, TargetKind("x").Valid())
}
