package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/auth"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

type RegisterInput struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Email    string `validate:"required,email,max=255"`
	FullName string `validate:"notblank,max=128"`
	Password string `validate:"required,min=8,max=72"`
	Avatar   string `validate:"omitempty,url"`
}

type LoginInput struct {
	Login    string `validate:"required"` // username 或 email
	Password string `validate:"required"`
}

// TokenIssuer 签发访问令牌
type TokenIssuer interface {
	Issue(id auth.Identity) (token string, expiresAt time.Time, err error)
}

type Session struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        *model.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Me(ctx context.Context, actor model.Principal) (*model.User, error)
}

type userService struct {
	stores Stores
	tokens TokenIssuer
}

func NewUserService(stores Stores, tokens TokenIssuer) UserService {
	return &userService{stores: stores, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, err
	}
	taken, err := s.stores.Users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, internal("check user", err)
	}
	if taken {
		return nil, &Error{Kind: KindConflict, Msg: "user with email or username already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("hash password", err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     strings.TrimSpace(in.FullName),
		Avatar:       in.Avatar,
		PasswordHash: string(hash),
	}
	if err := s.stores.Users.Create(ctx, u); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Msg: "user with email or username already exists", Err: err}
		}
		return nil, internal("create user", err)
	}
	logger.Info("user registered", zap.String("user", u.ID))
	return u, nil
}

func (s *userService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.stores.Users.GetByLogin(ctx, strings.ToLower(strings.TrimSpace(in.Login)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &Error{Kind: KindUnauthenticated, Msg: "invalid credentials"}
	}
	if err != nil {
		return nil, internal("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, &Error{Kind: KindUnauthenticated, Msg: "invalid credentials"}
	}
	token, exp, err := s.tokens.Issue(auth.Identity{Subject: u.ID, Username: u.Username})
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &Session{AccessToken: token, ExpiresAt: exp, User: u}, nil
}

func (s *userService) Me(ctx context.Context, actor model.Principal) (*model.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := s.stores.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, storeErr("user", "load user", err)
	}
	return u, nil
}
