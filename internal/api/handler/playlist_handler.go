package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/response"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylist 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Accept json
// @Security BearerAuth
// @Param request body playlistRequest true "名称与描述"
// @Success 201 {object} response.Response{data=service.PlaylistView}
// @Router /api/v1/playlist/create-playlist [post]
func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.Create(c.Request.Context(), actor(c), service.PlaylistInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "playlist created", p)
}

// GetPlaylist 播放列表详情
// @Summary 播放列表详情（只含已发布视频）
// @Tags 播放列表
// @Security BearerAuth
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistDetail}
// @Router /api/v1/playlist/{playlistId} [get]
func (h *Handler) GetPlaylist(c *gin.Context) {
	d, err := h.views.PlaylistDetail(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// UserPlaylists 用户的播放列表
// @Summary 用户的播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=[]service.PlaylistSummary}
// @Router /api/v1/playlist/user/{userId} [get]
func (h *Handler) UserPlaylists(c *gin.Context) {
	items, err := h.views.UserPlaylists(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

// UpdatePlaylist 修改播放列表
// @Summary 修改播放列表
// @Tags 播放列表
// @Accept json
// @Security BearerAuth
// @Param playlistId path string true "播放列表ID"
// @Param request body playlistRequest true "名称与描述"
// @Success 200 {object} response.Response{data=service.PlaylistView}
// @Router /api/v1/playlist/{playlistId} [patch]
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.Update(c.Request.Context(), actor(c), c.Param("playlistId"), service.PlaylistInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePlaylist 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Security BearerAuth
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response
// @Router /api/v1/playlist/{playlistId} [delete]
func (h *Handler) DeletePlaylist(c *gin.Context) {
	if err := h.playlists.Delete(c.Request.Context(), actor(c), c.Param("playlistId")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "playlist deleted", nil)
}

// AddPlaylistVideo 加入视频（已存在时不变）
// @Summary 向播放列表加入视频
// @Tags 播放列表
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistView}
// @Router /api/v1/playlist/add/{videoId}/{playlistId} [patch]
func (h *Handler) AddPlaylistVideo(c *gin.Context) {
	p, err := h.playlists.AddVideo(c.Request.Context(), actor(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// RemovePlaylistVideo 移除视频
// @Summary 从播放列表移除视频
// @Tags 播放列表
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param playlistId path string true "播放列表ID"
// @Success 200 {object} response.Response{data=service.PlaylistView}
// @Router /api/v1/playlist/remove/{videoId}/{playlistId} [patch]
func (h *Handler) RemovePlaylistVideo(c *gin.Context) {
	p, err := h.playlists.RemoveVideo(c.Request.Context(), actor(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}
