package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/pkg/response"
)

// ChannelStats 频道统计，不带 channelId 时统计当前用户
// @Summary 频道统计
// @Tags 仪表盘
// @Security BearerAuth
// @Param channelId path string false "频道ID"
// @Success 200 {object} response.Response{data=service.ChannelStats}
// @Router /api/v1/dashboard/stats/{channelId} [get]
func (h *Handler) ChannelStats(c *gin.Context) {
	id := c.Param("channelId")
	if id == "" {
		id = actor(c).ID
	}
	stats, err := h.views.ChannelStats(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// ChannelVideos 我的全部视频（含未发布）
// @Summary 频道视频
// @Tags 仪表盘
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.ChannelVideo}
// @Router /api/v1/dashboard/videos [get]
func (h *Handler) ChannelVideos(c *gin.Context) {
	items, err := h.views.ChannelVideos(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}
