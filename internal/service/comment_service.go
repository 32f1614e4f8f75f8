package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/internal/model"
)

type contentInput struct {
	Content string `validate:"notblank,max=5000"`
}

type CommentService interface {
	Add(ctx context.Context, actor model.Principal, videoID, content string) (*model.Comment, error)
	Update(ctx context.Context, actor model.Principal, commentID, content string) (*model.Comment, error)
	Delete(ctx context.Context, actor model.Principal, commentID string) error
}

type commentService struct {
	stores Stores
}

func NewCommentService(stores Stores) CommentService {
	return &commentService{stores: stores}
}

func (s *commentService) Add(ctx context.Context, actor model.Principal, videoID, content string) (*model.Comment, error) {
	id, err := ParseID("video id", videoID)
	if err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ok, err := s.stores.Videos.Exists(ctx, id)
	if err != nil {
		return nil, internal("check video", err)
	}
	if !ok {
		return nil, notFound("video")
	}
	if err := validateInput(contentInput{Content: content}); err != nil {
		return nil, err
	}

	c := &model.Comment{ID: uuid.New().String(), Content: strings.TrimSpace(content), VideoID: id, OwnerID: actor.ID}
	if err := s.stores.Comments.Create(ctx, c); err != nil {
		return nil, internal("create comment", err)
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, actor model.Principal, commentID, content string) (*model.Comment, error) {
	c, err := s.owned(ctx, actor, commentID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(contentInput{Content: content}); err != nil {
		return nil, err
	}
	updated, err := s.stores.Comments.UpdateContent(ctx, c.ID, strings.TrimSpace(content))
	if err != nil {
		return nil, storeErr("comment", "update comment", err)
	}
	return updated, nil
}

// Delete 先删评论上的点赞，再删评论
func (s *commentService) Delete(ctx context.Context, actor model.Principal, commentID string) error {
	c, err := s.owned(ctx, actor, commentID)
	if err != nil {
		return err
	}
	if _, err := s.stores.Likes.DeleteByTargets(ctx, model.TargetComment, []string{c.ID}); err != nil {
		return internal("delete comment likes", err)
	}
	if _, err := s.stores.Comments.Delete(ctx, c.ID); err != nil {
		return internal("delete comment", err)
	}
	return nil
}

func (s *commentService) owned(ctx context.Context, actor model.Principal, commentID string) (*model.Comment, error) {
	id, err := ParseID("comment id", commentID)
	if err != nil {
		return nil, err
	}
	c, err := s.stores.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("comment", "load comment", err)
	}
	if err := Authorize(c, actor); err != nil {
		return nil, err
	}
	return c, nil
}
