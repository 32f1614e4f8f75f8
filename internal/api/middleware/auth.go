package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/auth"
	"github.com/d60-Lab/vidtube/pkg/response"
)

const principalKey = "vidtube.principal"

// TokenVerifier 解析访问令牌
type TokenVerifier interface {
	Parse(raw string) (auth.Identity, error)
}

// Auth 解析 Bearer 令牌并写入上下文。required 为 false 时缺少令牌按匿名处理，令牌无效仍然拒绝
func Auth(v TokenVerifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			if required {
				response.Unauthorized(c, "missing access token")
				return
			}
			c.Next()
			return
		}
		id, err := v.Parse(raw)
		if err != nil || id.Subject == "" {
			response.Unauthorized(c, "invalid access token")
			return
		}
		c.Set(principalKey, model.Principal{ID: id.Subject, Username: id.Username})
		c.Next()
	}
}

func bearer(h string) string {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// Principal 当前请求的操作者，未登录时为 model.Anonymous
func Principal(c *gin.Context) model.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(model.Principal); ok {
			return p
		}
	}
	return model.Anonymous
}
