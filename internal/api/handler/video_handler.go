package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/response"
)

// ListVideos 已发布视频列表
// @Summary 视频列表（搜索 / 按作者过滤 / 排序 / 分页）
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param query query string false "标题或描述关键字"
// @Param userId query string false "作者ID"
// @Param sortBy query string false "createdAt | views | duration | title"
// @Param sortType query string false "asc | desc"
// @Success 200 {object} response.Response{data=repository.PageResult[service.VideoItem]}
// @Router /api/v1/video [get]
func (h *Handler) ListVideos(c *gin.Context) {
	q := service.VideoListQuery{
		UserID:   c.Query("userId"),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	}
	page, err := h.views.VideoListing(c.Request.Context(), q, h.pageRequest(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// PublishVideo 上传视频
// @Summary 上传视频（创建后为未发布状态）
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param videoFile formData file true "视频文件"
// @Param thumbnail formData file true "封面"
// @Success 201 {object} response.Response{data=model.Video}
// @Failure 400 {object} response.Response
// @Router /api/v1/video [post]
func (h *Handler) PublishVideo(c *gin.Context) {
	videoPath, cleanVideo, err := h.saveUpload(c, "videoFile")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer cleanVideo()
	thumbPath, cleanThumb, err := h.saveUpload(c, "thumbnail")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer cleanThumb()

	v, err := h.videos.Publish(c.Request.Context(), actor(c), service.PublishVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "video uploaded", v)
}

// GetVideo 视频详情
// @Summary 视频详情（点赞 / 订阅状态相对当前用户）
// @Tags 视频
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response{data=service.VideoDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/video/{videoId} [get]
func (h *Handler) GetVideo(c *gin.Context) {
	d, err := h.views.VideoDetail(c.Request.Context(), actor(c), c.Param("videoId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// UpdateVideo 修改标题 / 描述 / 封面
// @Summary 修改视频
// @Tags 视频
// @Accept multipart/form-data
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param title formData string false "标题"
// @Param description formData string false "描述"
// @Param thumbnail formData file false "新封面"
// @Success 200 {object} response.Response{data=model.Video}
// @Failure 403 {object} response.Response
// @Router /api/v1/video/{videoId} [patch]
func (h *Handler) UpdateVideo(c *gin.Context) {
	thumbPath, cleanThumb, err := h.saveUpload(c, "thumbnail")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer cleanThumb()

	v, err := h.videos.Update(c.Request.Context(), actor(c), c.Param("videoId"), service.UpdateVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, v)
}

// DeleteVideo 删除视频及其评论、点赞、播放列表成员和观看记录
// @Summary 删除视频
// @Tags 视频
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response
// @Router /api/v1/video/{videoId} [delete]
func (h *Handler) DeleteVideo(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), actor(c), c.Param("videoId")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "video deleted", nil)
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags 视频
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Success 200 {object} response.Response{data=model.Video}
// @Router /api/v1/video/toggle/publish/{videoId} [patch]
func (h *Handler) TogglePublish(c *gin.Context) {
	v, err := h.videos.TogglePublish(c.Request.Context(), actor(c), c.Param("videoId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, v)
}
