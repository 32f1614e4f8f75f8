package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/response"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register 注册
// @Summary 注册用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), service.RegisterInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "user registered", u)
}

// Login 登录
// @Summary 登录并获取访问令牌
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "用户名或邮箱 + 密码"
// @Success 200 {object} response.Response{data=service.Session}
// @Failure 401 {object} response.Response
// @Router /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s, err := h.users.Login(c.Request.Context(), service.LoginInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, s)
}

// Me 当前用户
// @Summary 当前登录用户
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Router /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// WatchHistory 观看历史
// @Summary 观看历史（按观看顺序）
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.VideoItem}
// @Router /api/v1/users/history [get]
func (h *Handler) WatchHistory(c *gin.Context) {
	items, err := h.views.WatchHistory(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}
