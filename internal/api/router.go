// Package api wires handlers and middleware into a gin engine.
package api

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/vidtube/docs"
	"github.com/d60-Lab/vidtube/internal/api/handler"
	"github.com/d60-Lab/vidtube/internal/api/middleware"
)

type Options struct {
	Mode        string
	Verifier    middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter // nil 关闭限流
	Timeout     time.Duration
	ServiceName string
	Tracing     bool
	Sentry      bool
	Swagger     bool
	MaxUploadMB int64
}

func NewRouter(h *handler.Handler, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	if opts.MaxUploadMB > 0 {
		r.MaxMultipartMemory = opts.MaxUploadMB << 20
	}

	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(middleware.Logger(), gzip.Gzip(gzip.DefaultCompression))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}
	r.Use(middleware.Timeout(opts.Timeout))

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authed := middleware.Auth(opts.Verifier, true)
	v1 := r.Group("/api/v1")

	v1.GET("/healthcheck", h.Healthcheck)

	users := v1.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.GET("/me", authed, h.Me)
	users.GET("/history", authed, h.WatchHistory)

	video := v1.Group("/video")
	video.GET("", middleware.Auth(opts.Verifier, false), h.ListVideos)
	video.Use(authed)
	video.POST("", h.PublishVideo)
	video.GET("/:videoId", h.GetVideo)
	video.PATCH("/:videoId", h.UpdateVideo)
	video.DELETE("/:videoId", h.DeleteVideo)
	video.PATCH("/toggle/publish/:videoId", h.TogglePublish)

	comment := v1.Group("/comment", authed)
	comment.GET("/:videoId", h.ListComments)
	comment.POST("/:videoId", h.AddComment)
	comment.PATCH("/c/:commentId", h.UpdateComment)
	comment.DELETE("/c/:commentId", h.DeleteComment)

	tweet := v1.Group("/tweet", authed)
	tweet.POST("", h.CreateTweet)
	tweet.GET("/user/:userId", h.UserTweets)
	tweet.PATCH("/:tweetId", h.UpdateTweet)
	tweet.DELETE("/:tweetId", h.DeleteTweet)

	likes := v1.Group("/likes", authed)
	likes.POST("/toggle/v/:videoId", h.ToggleVideoLike)
	likes.POST("/toggle/c/:commentId", h.ToggleCommentLike)
	likes.POST("/toggle/t/:tweetId", h.ToggleTweetLike)
	likes.GET("/videos", h.LikedVideos)

	subs := v1.Group("/subscriptions", authed)
	subs.POST("/c/:channelId", h.ToggleSubscription)
	subs.GET("/subscribers", h.ChannelSubscribers)
	subs.GET("/subscribed-channels", h.SubscribedChannels)

	dashboard := v1.Group("/dashboard", authed)
	dashboard.GET("/stats", h.ChannelStats)
	dashboard.GET("/stats/:channelId", h.ChannelStats)
	dashboard.GET("/videos", h.ChannelVideos)

	playlist := v1.Group("/playlist", authed)
	playlist.POST("/create-playlist", h.CreatePlaylist)
	playlist.GET("/user/:userId", h.UserPlaylists)
	playlist.GET("/:playlistId", h.GetPlaylist)
	playlist.PATCH("/:playlistId", h.UpdatePlaylist)
	playlist.DELETE("/:playlistId", h.DeletePlaylist)
	playlist.PATCH("/add/:videoId/:playlistId", h.AddPlaylistVideo)
	playlist.PATCH("/remove/:videoId/:playlistId", h.RemovePlaylistVideo)

	return r
}
