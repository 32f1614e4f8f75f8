package service

import (
	"context"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
)

// OwnerLoader 批量加载用户资料，用于组装 owner 投影
type OwnerLoader interface {
	Load(ctx context.Context, ids []string) (map[string]*model.User, error)
}

type repoOwnerLoader struct {
	users repository.UserRepository
}

// NewOwnerLoader 直接读库的实现；有 redis 时由 cache.ProfileCache 包装
func NewOwnerLoader(users repository.UserRepository) OwnerLoader {
	return &repoOwnerLoader{users: users}
}

func (l *repoOwnerLoader) Load(ctx context.Context, ids []string) (map[string]*model.User, error) {
	users, err := l.users.GetByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	res := make(map[string]*model.User, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}

func uniq(ids []string) []string {
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
