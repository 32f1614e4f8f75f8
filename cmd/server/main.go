package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/api"
	"github.com/d60-Lab/vidtube/internal/api/handler"
	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/internal/cache"
	"github.com/d60-Lab/vidtube/internal/media"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/auth"
	"github.com/d60-Lab/vidtube/pkg/database"
	"github.com/d60-Lab/vidtube/pkg/logger"
	"github.com/d60-Lab/vidtube/pkg/tracing"
)

// @title VidTube API
// @version 1.0
// @description Video sharing backend: videos, comments, tweets, likes, subscriptions, playlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg, model.All()...)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	storage, err := media.NewMinioStorage(cfg.Media)
	if err != nil {
		return err
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return err
	}

	stores := service.NewStores(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL)

	toggleOpts := service.ToggleOptions{AllowSelfSubscribe: cfg.Subscription.AllowSelf}
	composerOpts := service.ComposerOptions{FeedVideoLimit: cfg.Feed.SubscriptionVideoLimit}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// redis 只做加速，不可用时照常启动
			logger.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		toggleOpts.Idempotency = cache.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		composerOpts.Owners = cache.NewProfileCache(rdb, stores.Users, cfg.Redis.ProfileTTL)
	}

	recorder := service.NewViewRecorder(stores.Videos, stores.Users, cfg.Recorder.QueueSize)
	stopRecorder := recorder.Start(cfg.Recorder.Workers)
	composerOpts.Recorder = recorder

	h := handler.New(handler.Deps{
		Users:      service.NewUserService(stores, tokens),
		Videos:     service.NewVideoService(stores, storage),
		Comments:   service.NewCommentService(stores),
		Tweets:     service.NewTweetService(stores),
		Playlists:  service.NewPlaylistService(stores),
		Toggles:    service.NewToggleManager(stores, toggleOpts),
		Views:      service.NewViewComposer(stores, composerOpts),
		Ping:       pinger(db),
		Pagination: cfg.Pagination,
		UploadDir:  cfg.Media.TempDir,
	})

	opts := api.Options{
		Mode:        cfg.Server.Mode,
		Verifier:    tokens,
		Timeout:     cfg.Server.RequestTimeout,
		ServiceName: cfg.Tracing.ServiceName,
		Tracing:     cfg.Tracing.Enabled,
		Sentry:      cfg.Sentry.DSN != "",
		Swagger:     cfg.Server.Mode != "release",
		MaxUploadMB: cfg.Server.MaxUploadMB,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go sweep(ctx, opts.RateLimiter)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(h, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := stopRecorder(shutdownCtx); err != nil {
		logger.Warn("view recorder shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}

func pinger(db *gorm.DB) handler.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func sweep(ctx context.Context, rl *middleware.RateLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := rl.Sweep(); n > 0 {
				logger.Debug("rate limiter swept", zap.Int("visitors", n))
			}
		}
	}
}
