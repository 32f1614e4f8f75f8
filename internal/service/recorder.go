package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

// Recorder 视频详情读取的副作用：播放数 +1、写入观看历史
type Recorder interface {
	RecordView(videoID, viewerID string)
}

type viewJob struct {
	videoID  string
	viewerID string
	enqAt    time.Time
}

// ViewRecorder 本地异步执行器，失败只记日志，不影响读请求
type ViewRecorder struct {
	videos  repository.VideoRepository
	users   repository.UserRepository
	ch      chan viewJob
	timeout time.Duration
}

func NewViewRecorder(videos repository.VideoRepository, users repository.UserRepository, queueSize int) *ViewRecorder {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &ViewRecorder{videos: videos, users: users, ch: make(chan viewJob, queueSize), timeout: 5 * time.Second}
}

// Start 启动 worker，返回的 stop 会排空队列直到 ctx 到期
func (r *ViewRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.process(job)
				case <-stopCh:
					for {
						select {
						case job := <-r.ch:
							r.process(job)
						default:
							return
						}
					}
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			logger.Warn("view recorder stopped before queue drained", zap.Int("pending", len(r.ch)))
			return ctx.Err()
		}
	}
}

func (r *ViewRecorder) process(job viewJob) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.videos.IncrementViews(ctx, job.videoID); err != nil {
		logger.Warn("increment views failed", zap.String("video", job.videoID), zap.Error(err))
	}
	if job.viewerID == "" {
		return
	}
	if err := r.users.AddToWatchHistory(ctx, job.viewerID, job.videoID); err != nil {
		logger.Warn("append watch history failed",
			zap.String("user", job.viewerID), zap.String("video", job.videoID), zap.Error(err))
	}
	logger.Debug("view recorded", zap.String("video", job.videoID), zap.Duration("lag", time.Since(job.enqAt)))
}

func (r *ViewRecorder) RecordView(videoID, viewerID string) {
	select {
	case r.ch <- viewJob{videoID: videoID, viewerID: viewerID, enqAt: time.Now()}:
	default:
		logger.Warn("view recorder queue full, drop", zap.String("video", videoID), zap.String("user", viewerID))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (r *ViewRecorder) QueueLen() int { return len(r.ch) }
