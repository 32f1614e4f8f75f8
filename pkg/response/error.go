package response

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ServerError 上报 sentry 后返回通用的 500 信息
func ServerError(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil && err != nil {
		hub.CaptureException(err)
	}
	InternalError(c, err)
}
