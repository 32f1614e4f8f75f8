package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/auth"
)

func TestUserService_RegisterLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tokens := auth.NewTokenManager("secret", "vidtube", time.Hour)
	svc := NewUserService(e.stores, tokens)

	u, err := svc.Register(ctx, RegisterInput{
		Username: "Alice", Email: "Alice@Example.com", FullName: "Alice A", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password1", u.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", FullName: "x", Password: "password1"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", FullName: "Bob", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)

	for _, login := range []string{"alice", "ALICE@example.com"} {
		s, err := svc.Login(ctx, LoginInput{Login: login, Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, u.ID, s.User.ID)
		p, err := tokens.Parse(s.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, p.Subject)
	}

	_, err = svc.Login(ctx, LoginInput{Login: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Login(ctx, LoginInput{Login: "nobody", Password: "password1"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	me, err := svc.Me(ctx, model.Principal{ID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	_, err = svc.Me(ctx, model.Anonymous)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// staleUsers 模拟并发注册：存在性检查总是看不到对方刚写入的行
type staleUsers struct {
	repository.UserRepository
}

func (staleUsers) ExistsByUsernameOrEmail(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestUserService_RegisterRaceIsConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	stores := e.stores
	stores.Users = staleUsers{UserRepository: e.stores.Users}
	svc := NewUserService(stores, auth.NewTokenManager("secret", "vidtube", time.Hour))

	in := RegisterInput{Username: "carol", Email: "carol@example.com", FullName: "Carol", Password: "password1"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), e.count(t, &model.User{}, "username = ?", "carol"))
}
