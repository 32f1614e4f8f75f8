// Package handler exposes the engine over HTTP.
package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

// Pinger 健康检查探测存储
type Pinger func(ctx context.Context) error

type Deps struct {
	Users      service.UserService
	Videos     service.VideoService
	Comments   service.CommentService
	Tweets     service.TweetService
	Playlists  service.PlaylistService
	Toggles    service.ToggleManager
	Views      service.ViewComposer
	Ping       Pinger
	Pagination config.PaginationConfig
	// UploadDir 上传文件的临时目录，转存到媒体存储后删除
	UploadDir string
}

type Handler struct {
	users     service.UserService
	videos    service.VideoService
	comments  service.CommentService
	tweets    service.TweetService
	playlists service.PlaylistService
	toggles   service.ToggleManager
	views     service.ViewComposer
	ping      Pinger
	pages     config.PaginationConfig
	uploadDir string
}

func New(d Deps) *Handler {
	dir := d.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Handler{
		users:     d.Users,
		videos:    d.Videos,
		comments:  d.Comments,
		tweets:    d.Tweets,
		playlists: d.Playlists,
		toggles:   d.Toggles,
		views:     d.Views,
		ping:      d.Ping,
		pages:     d.Pagination,
		uploadDir: dir,
	}
}

func actor(c *gin.Context) model.Principal { return middleware.Principal(c) }

func (h *Handler) pageRequest(c *gin.Context) repository.PageRequest {
	return repository.ParsePageRequest(c.Query("page"), c.Query("limit"), h.pages.DefaultLimit, h.pages.MaxLimit)
}

// saveUpload 把 multipart 文件落到临时目录；字段缺失返回空路径
func (h *Handler) saveUpload(c *gin.Context, field string) (string, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", func() {}, nil
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(h.uploadDir, fmt.Sprintf("upload-%s%s", uuid.New().String(), ext))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", func() {}, err
	}
	cleanup := func() {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove temp upload failed", zap.String("path", dst), zap.Error(err))
		}
	}
	return dst, cleanup, nil
}
