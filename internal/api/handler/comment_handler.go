package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/pkg/response"
)

type contentRequest struct {
	Content string `json:"content"`
}

// ListComments 视频评论
// @Summary 视频评论（分页，最新在前）
// @Tags 评论
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=repository.PageResult[service.CommentItem]}
// @Router /api/v1/comment/{videoId} [get]
func (h *Handler) ListComments(c *gin.Context) {
	page, err := h.views.CommentFeed(c.Request.Context(), actor(c), c.Param("videoId"), h.pageRequest(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Security BearerAuth
// @Param videoId path string true "视频ID"
// @Param request body contentRequest true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Router /api/v1/comment/{videoId} [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.comments.Add(c.Request.Context(), actor(c), c.Param("videoId"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "comment added", cm)
}

// UpdateComment 修改评论
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Security BearerAuth
// @Param commentId path string true "评论ID"
// @Param request body contentRequest true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /api/v1/comment/c/{commentId} [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.comments.Update(c.Request.Context(), actor(c), c.Param("commentId"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags 评论
// @Security BearerAuth
// @Param commentId path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /api/v1/comment/c/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), actor(c), c.Param("commentId")); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "comment deleted", nil)
}
