// togglebench drives concurrent like toggles and detail reads against the configured store.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/database"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	mustDo(logger.Init("warn", "console"))
	db := must(database.InitDB(cfg, model.All()...))
	stores := service.NewStores(db)
	ctx := context.Background()

	N := envInt("N", 5000)
	CONC := envInt("CONC", 8)

	// 一个频道、一个视频，N 个用户并发点赞
	owner := &model.User{ID: uuid.NewString(), Username: "bench_" + uuid.NewString()[:8], PasswordHash: "x"}
	owner.Email = owner.Username + "@example.com"
	mustDo(db.Create(owner).Error)
	video := &model.Video{ID: uuid.NewString(), OwnerID: owner.ID, Title: "bench", Description: "bench", IsPublished: true}
	mustDo(db.Create(video).Error)

	users := make([]model.User, N)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{ID: id, Username: "u" + id[:12], Email: id[:12] + "@example.com", PasswordHash: "x"}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	toggles := service.NewToggleManager(stores, service.ToggleOptions{AllowSelfSubscribe: true})
	recorder := service.NewViewRecorder(stores.Videos, stores.Users, N)
	stop := recorder.Start(cfg.Recorder.Workers)
	views := service.NewViewComposer(stores, service.ComposerOptions{Recorder: recorder})

	run := func(label string, op func(i int) error) []time.Duration {
		feed := make(chan int, N)
		for i := 0; i < N; i++ {
			feed <- i
		}
		close(feed)
		out := make(chan time.Duration, N)
		done := make(chan struct{}, CONC)
		t0 := time.Now()
		for w := 0; w < CONC; w++ {
			go func() {
				for i := range feed {
					st := time.Now()
					if err := op(i); err != nil {
						fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
					}
					out <- time.Since(st)
				}
				done <- struct{}{}
			}()
		}
		for w := 0; w < CONC; w++ {
			<-done
		}
		close(out)
		recs := make([]time.Duration, 0, N)
		for d := range out {
			recs = append(recs, d)
		}
		total := time.Since(t0)
		fmt.Printf("%-14s total=%v per_op=%v p50=%v p95=%v p99=%v\n",
			label, total, total/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
		return recs
	}

	like := func(i int) error {
		p := model.Principal{ID: users[i].ID}
		_, err := toggles.Toggle(ctx, p, service.ToggleRequest{Kind: model.TargetVideo, TargetID: video.ID})
		return err
	}
	detail := func(i int) error {
		_, err := views.VideoDetail(ctx, model.Principal{ID: users[i].ID}, video.ID)
		return err
	}

	fmt.Printf("N=%d, CONC=%d, driver=%s\n", N, CONC, cfg.Database.Driver)
	run("like", like)
	maxQ := 0
	quit := make(chan struct{})
	go func() {
		t := time.NewTicker(50 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if q := recorder.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quit:
				return
			}
		}
	}()
	run("detail", detail)
	close(quit)
	run("unlike", like)

	drain := time.Now()
	_ = stop(context.Background())
	fmt.Printf("recorder drain=%v maxQueue=%d\n", time.Since(drain), maxQ)

	stats := must(views.ChannelStats(ctx, owner.ID))
	fmt.Printf("channel stats: likes=%d views=%d videos=%d\n", stats.TotalLikes, stats.TotalViews, stats.TotalVideos)
}
