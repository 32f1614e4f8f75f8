package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "vidtube", time.Hour)
	token, exp, err := m.Issue(Identity{Subject: "u1", Username: "alice"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "u1", Username: "alice"}, p)
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", "vidtube", time.Hour)
	token, _, err := m.Issue(Identity{Subject: "u1"})
	require.NoError(t, err)

	other := NewTokenManager("other", "vidtube", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := NewTokenManager("secret", "someone-else", time.Hour)
	_, err = foreign.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", "vidtube", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.Issue(Identity{Subject: "u1"})
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
