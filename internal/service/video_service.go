package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/internal/media"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

type PublishVideoInput struct {
	Title         string `validate:"notblank,max=255"`
	Description   string `validate:"notblank"`
	VideoPath     string `validate:"required"`
	ThumbnailPath string `validate:"required"`
}

// UpdateVideoInput 字段为空表示不修改，但至少要有一项
type UpdateVideoInput struct {
	Title         string `validate:"max=255"`
	Description   string
	ThumbnailPath string
}

// VideoService 视频发布与维护
type VideoService interface {
	Publish(ctx context.Context, actor model.Principal, in PublishVideoInput) (*model.Video, error)
	Update(ctx context.Context, actor model.Principal, videoID string, in UpdateVideoInput) (*model.Video, error)
	Delete(ctx context.Context, actor model.Principal, videoID string) error
	TogglePublish(ctx context.Context, actor model.Principal, videoID string) (*model.Video, error)
}

type videoService struct {
	stores  Stores
	storage media.Storage
}

func NewVideoService(stores Stores, storage media.Storage) VideoService {
	return &videoService{stores: stores, storage: storage}
}

func (s *videoService) Publish(ctx context.Context, actor model.Principal, in PublishVideoInput) (*model.Video, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	file, err := s.storage.Store(ctx, in.VideoPath, media.KindVideo)
	if err != nil {
		return nil, internal("upload video", err)
	}
	thumb, err := s.storage.Store(ctx, in.ThumbnailPath, media.KindImage)
	if err != nil {
		s.discard(ctx, file.URL, media.KindVideo)
		return nil, internal("upload thumbnail", err)
	}

	v := &model.Video{
		ID:          uuid.New().String(),
		OwnerID:     actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		VideoFile:   file.URL,
		Thumbnail:   thumb.URL,
		Duration:    file.Duration,
		IsPublished: false,
	}
	if err := s.stores.Videos.Create(ctx, v); err != nil {
		s.discard(ctx, file.URL, media.KindVideo)
		s.discard(ctx, thumb.URL, media.KindImage)
		return nil, internal("create video", err)
	}
	logger.Info("video published", zap.String("video", v.ID), zap.String("owner", v.OwnerID))
	return v, nil
}

func (s *videoService) Update(ctx context.Context, actor model.Principal, videoID string, in UpdateVideoInput) (*model.Video, error) {
	v, err := s.owned(ctx, actor, videoID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if t := strings.TrimSpace(in.Title); t != "" {
		fields["title"] = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		fields["description"] = d
	}
	if in.ThumbnailPath == "" && len(fields) == 0 {
		return nil, validation("title, description or thumbnail is required")
	}

	var newThumb string
	if in.ThumbnailPath != "" {
		asset, err := s.storage.Store(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return nil, internal("upload thumbnail", err)
		}
		newThumb = asset.URL
		fields["thumbnail"] = newThumb
	}

	updated, err := s.stores.Videos.Update(ctx, v.ID, fields)
	if err != nil {
		if newThumb != "" {
			s.discard(ctx, newThumb, media.KindImage)
		}
		return nil, storeErr("video", "update video", err)
	}
	// 更新成功后再删除旧封面
	if newThumb != "" {
		s.discard(ctx, v.Thumbnail, media.KindImage)
	}
	return updated, nil
}

// Delete 级联删除。每一步都是 delete-if-exists，视频行最后删除，中途失败后重试可以收敛。
func (s *videoService) Delete(ctx context.Context, actor model.Principal, videoID string) error {
	v, err := s.owned(ctx, actor, videoID)
	if err != nil {
		return err
	}

	commentIDs, err := s.stores.Comments.IDsByVideo(ctx, v.ID)
	if err != nil {
		return internal("list video comments", err)
	}
	if _, err := s.stores.Likes.DeleteByTargets(ctx, model.TargetComment, commentIDs); err != nil {
		return internal("delete comment likes", err)
	}
	if _, err := s.stores.Comments.DeleteByVideo(ctx, v.ID); err != nil {
		return internal("delete comments", err)
	}
	if _, err := s.stores.Likes.DeleteByTargets(ctx, model.TargetVideo, []string{v.ID}); err != nil {
		return internal("delete video likes", err)
	}
	if _, err := s.stores.Playlists.RemoveVideoEverywhere(ctx, v.ID); err != nil {
		return internal("remove from playlists", err)
	}
	if _, err := s.stores.Users.RemoveFromAllWatchHistories(ctx, v.ID); err != nil {
		return internal("remove from watch history", err)
	}
	if err := s.removeMedia(ctx, v.VideoFile, media.KindVideo); err != nil {
		return internal("remove video file", err)
	}
	if err := s.removeMedia(ctx, v.Thumbnail, media.KindImage); err != nil {
		return internal("remove thumbnail", err)
	}
	if _, err := s.stores.Videos.Delete(ctx, v.ID); err != nil {
		return internal("delete video", err)
	}
	logger.Info("video deleted", zap.String("video", v.ID), zap.Int("comments", len(commentIDs)))
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, actor model.Principal, videoID string) (*model.Video, error) {
	v, err := s.owned(ctx, actor, videoID)
	if err != nil {
		return nil, err
	}
	updated, err := s.stores.Videos.Update(ctx, v.ID, map[string]interface{}{"is_published": !v.IsPublished})
	if err != nil {
		return nil, storeErr("video", "toggle publish", err)
	}
	return updated, nil
}

// owned 依次校验 id 格式、存在性、所有权
func (s *videoService) owned(ctx context.Context, actor model.Principal, videoID string) (*model.Video, error) {
	id, err := ParseID("video id", videoID)
	if err != nil {
		return nil, err
	}
	v, err := s.stores.Videos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("video", "load video", err)
	}
	if err := Authorize(v, actor); err != nil {
		return nil, err
	}
	return v, nil
}

// removeMedia 不属于本存储的地址视为已删除
func (s *videoService) removeMedia(ctx context.Context, url string, kind media.Kind) error {
	if url == "" {
		return nil
	}
	err := s.storage.Remove(ctx, url, kind)
	if errors.Is(err, media.ErrUnknownURL) {
		logger.Warn("skip foreign media url", zap.String("url", url))
		return nil
	}
	return err
}

func (s *videoService) discard(ctx context.Context, url string, kind media.Kind) {
	if err := s.removeMedia(ctx, url, kind); err != nil {
		logger.Warn("discard media failed", zap.String("url", url), zap.Error(err))
	}
}
