package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/pkg/response"
)

// CreateTweet 发布动态
// @Summary 发布动态
// @Tags 动态
// @Accept json
// @Security BearerAuth
// @Param request body contentRequest true "内容"
// @Success 201 {object} response.Response{data=model.Tweet}
// @Router /api/v1/tweet [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.tweets.Create(c.Request.Context(), actor(c), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "tweet created", t)
}

// UserTweets 用户动态
// @Summary 用户动态（最新在前）
// @Tags 动态
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=[]service.TweetItem}
// @Router /api/v1/tweet/user/{userId} [get]
func (h *Handler) UserTweets(c *gin.Context) {
	items, err := h.views.TweetFeed(c.Request.Context(), actor(c), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

// UpdateTweet 修改动态
// @Summary 修改动态
// @Tags 动态
// @Accept json
// @Security BearerAuth
// @Param tweetId path string true "动态ID"
// @Param request body contentRequest true "内容"
// @Success 200 {object} response.Response{data=model.Tweet}
// @Router /api/v1/tweet/{tweetId} [patch]
func (h *Handler) UpdateTweet(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.tweets.Update(c.Request.Context(), actor(c), c.Param("tweetId"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, t)
}

// DeleteTweet 删除动态
// @Summary 删除动态
// @Tags 动态
// @Security BearerAuth
// @Param tweetId path string true "动态ID"
// @Success 200 {object} response.Response
// @Router /api/v1/tweet/{tweetId} [delete]
func (h *Handler) DeleteTweet(c *gin.Context) {
	if err := h.tweets.Delete(c.Request.Context(), actor(c), c.Param("tweetId")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "tweet deleted", nil)
}
