package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/response"
)

// IdempotencyHeader 同一次点击的重试携带相同的值
const IdempotencyHeader = "Idempotency-Key"

func (h *Handler) toggle(c *gin.Context, kind model.TargetKind, param string) {
	res, err := h.toggles.Toggle(c.Request.Context(), actor(c), service.ToggleRequest{
		Kind:           kind,
		TargetID:       c.Param(param),
		IdempotencyKey: c.GetHeader(IdempotencyHeader),
	})
	if err != nil {
		fail(c, err)
		return
	}
	msg := string(kind) + " unliked"
	switch {
	case kind == model.TargetChannel && res.Created():
		msg = "subscribed"
	case kind == model.TargetChannel:
		msg = "unsubscribed"
	case res.Created():
		msg = string(kind) + " liked"
	}
	response.SuccessWithMessage(c, msg, res)
}

// ToggleVideoLike 点赞 / 取消点赞视频
// @Summary 切换视频点赞
// @Tags 关系
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param Idempotency-Key header string false "重试去重"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/toggle/v/{videoId} [post]
func (h *Handler) ToggleVideoLike(c *gin.Context) { h.toggle(c, model.TargetVideo, "videoId") }

// ToggleCommentLike 点赞 / 取消点赞评论
// @Summary 切换评论点赞
// @Tags 关系
// @Security BearerAuth
// @Param commentId path string true "评论ID"
// @Param Idempotency-Key header string false "重试去重"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/likes/toggle/c/{commentId} [post]
func (h *Handler) ToggleCommentLike(c *gin.Context) { h.toggle(c, model.TargetComment, "commentId") }

// ToggleTweetLike 点赞 / 取消点赞动态
// @Summary 切换动态点赞
// @Tags 关系
// @Security BearerAuth
// @Param tweetId path string true "动态ID"
// @Param Idempotency-Key header string false "重试去重"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/likes/toggle/t/{tweetId} [post]
func (h *Handler) ToggleTweetLike(c *gin.Context) { h.toggle(c, model.TargetTweet, "tweetId") }

// ToggleSubscription 订阅 / 取消订阅频道
// @Summary 切换订阅
// @Tags 关系
// @Security BearerAuth
// @Param channelId path string true "频道（用户）ID"
// @Param Idempotency-Key header string false "重试去重"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/subscriptions/c/{channelId} [post]
func (h *Handler) ToggleSubscription(c *gin.Context) { h.toggle(c, model.TargetChannel, "channelId") }

// LikedVideos 我点赞过的视频
// @Summary 点赞过的视频
// @Tags 关系
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.VideoItem}
// @Router /api/v1/likes/videos [get]
func (h *Handler) LikedVideos(c *gin.Context) {
	items, err := h.views.LikedVideos(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

// ChannelSubscribers 我的订阅者
// @Summary 当前用户频道的订阅者
// @Tags 关系
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.ChannelSubscribers}
// @Router /api/v1/subscriptions/subscribers [get]
func (h *Handler) ChannelSubscribers(c *gin.Context) {
	res, err := h.views.ChannelSubscribers(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// SubscribedChannels 我订阅的频道及其最新视频
// @Summary 订阅的频道与视频流
// @Tags 关系
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.SubscriptionFeed}
// @Router /api/v1/subscriptions/subscribed-channels [get]
func (h *Handler) SubscribedChannels(c *gin.Context) {
	feed, err := h.views.SubscriptionFeed(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, feed)
}
