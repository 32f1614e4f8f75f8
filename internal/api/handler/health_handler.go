package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/pkg/response"
)

// Healthcheck 存储连通性
// @Summary 健康检查
// @Tags 系统
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/healthcheck [get]
func (h *Handler) Healthcheck(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			response.Fail(c, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	response.SuccessWithMessage(c, "ok", nil)
}
