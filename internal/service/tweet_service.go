package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/internal/model"
)

type TweetService interface {
	Create(ctx context.Context, actor model.Principal, content string) (*model.Tweet, error)
	Update(ctx context.Context, actor model.Principal, tweetID, content string) (*model.Tweet, error)
	Delete(ctx context.Context, actor model.Principal, tweetID string) error
}

type tweetService struct {
	stores Stores
}

func NewTweetService(stores Stores) TweetService {
	return &tweetService{stores: stores}
}

func (s *tweetService) Create(ctx context.Context, actor model.Principal, content string) (*model.Tweet, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateInput(contentInput{Content: content}); err != nil {
		return nil, err
	}
	t := &model.Tweet{ID: uuid.New().String(), Content: strings.TrimSpace(content), OwnerID: actor.ID}
	if err := s.stores.Tweets.Create(ctx, t); err != nil {
		return nil, internal("create tweet", err)
	}
	return t, nil
}

func (s *tweetService) Update(ctx context.Context, actor model.Principal, tweetID, content string) (*model.Tweet, error) {
	t, err := s.owned(ctx, actor, tweetID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(contentInput{Content: content}); err != nil {
		return nil, err
	}
	updated, err := s.stores.Tweets.UpdateContent(ctx, t.ID, strings.TrimSpace(content))
	if err != nil {
		return nil, storeErr("tweet", "update tweet", err)
	}
	return updated, nil
}

func (s *tweetService) Delete(ctx context.Context, actor model.Principal, tweetID string) error {
	t, err := s.owned(ctx, actor, tweetID)
	if err != nil {
		return err
	}
	if _, err := s.stores.Likes.DeleteByTargets(ctx, model.TargetTweet, []string{t.ID}); err != nil {
		return internal("delete tweet likes", err)
	}
	if _, err := s.stores.Tweets.Delete(ctx, t.ID); err != nil {
		return internal("delete tweet", err)
	}
	return nil
}

func (s *tweetService) owned(ctx context.Context, actor model.Principal, tweetID string) (*model.Tweet, error) {
	id, err := ParseID("tweet id", tweetID)
	if err != nil {
		return nil, err
	}
	t, err := s.stores.Tweets.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("tweet", "load tweet", err)
	}
	if err := Authorize(t, actor); err != nil {
		return nil, err
	}
	return t, nil
}
