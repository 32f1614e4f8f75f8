// ownerbench compares owner projection loading straight from the store and through the redis profile cache.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/cache"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/database"
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

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg, model.All()...))
	stores := service.NewStores(db)

	const (
		userCount = 20000
		requests  = 9000
		pageSize  = 20
	)

	fmt.Println("Setting up test data...")
	users := make([]model.User, userCount)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{ID: id, Username: fmt.Sprintf("owner_%s", id[:12]), Email: id[:12] + "@example.com", PasswordHash: "x"}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = cfg.Redis.Addr
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("connect redis at %s: %v", addr, err))
	}
	client.FlushDB(ctx)

	// 热门作者集中在前 2000 个用户，模拟列表页里作者的重复
	rng := rand.New(rand.NewSource(1))
	pages := make([][]string, requests)
	for i := range pages {
		ids := make([]string, pageSize)
		for j := range ids {
			ids[j] = users[int(math.Abs(rng.NormFloat64()*2000))%userCount].ID
		}
		pages[i] = ids
	}

	direct := service.NewOwnerLoader(stores.Users)
	cached := cache.NewProfileCache(client, stores.Users, cfg.Redis.ProfileTTL)

	run := func(label string, l service.OwnerLoader) {
		out := make([]time.Duration, 0, len(pages))
		for _, ids := range pages {
			st := time.Now()
			if _, err := l.Load(ctx, ids); err != nil {
				panic(err)
			}
			out = append(out, time.Since(st))
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		var sum time.Duration
		for _, d := range out {
			sum += d
		}
		fmt.Printf("%-14s avg=%v p95=%v p99=%v\n", label, sum/time.Duration(len(out)),
			out[len(out)*95/100], out[len(out)*99/100])
	}

	run("store", direct)
	run("cache (cold)", cached)
	run("cache (warm)", cached)
	keys := must(client.DBSize(ctx).Result())
	fmt.Printf("profile cache: db bulk loads=%d keys=%d\n", cached.BulkLoads(), keys)
}
