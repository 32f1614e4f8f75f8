package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/media"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

type env struct {
	db     *gorm.DB
	stores Stores
}

func newEnv(t testing.TB) *env {
	db := testutil.NewDB(t)
	return &env{db: db, stores: NewStores(db)}
}

func (e *env) count(t testing.TB, m interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func principal(u *model.User) model.Principal {
	return model.Principal{ID: u.ID, Username: u.Username}
}

// fakeStorage 内存媒体存储
type fakeStorage struct {
	mu         sync.Mutex
	n          int
	objects    map[string]media.Kind
	failStore  error
	failRemove error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]media.Kind{}}
}

func (f *fakeStorage) Store(_ context.Context, _ string, kind media.Kind) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStore != nil {
		return nil, f.failStore
	}
	f.n++
	url := fmt.Sprintf("https://media.test/%s/%d", kind, f.n)
	f.objects[url] = kind
	a := &media.Asset{URL: url}
	if kind == media.KindVideo {
		a.Duration = 42.5
	}
	return a, nil
}

func (f *fakeStorage) Remove(_ context.Context, url string, _ media.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove != nil {
		return f.failRemove
	}
	delete(f.objects, url)
	return nil
}

func (f *fakeStorage) has(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[url]
	return ok
}

// recordingRecorder 同步记录副作用调用
type recordingRecorder struct {
	mu    sync.Mutex
	views []string
}

func (r *recordingRecorder) RecordView(videoID, viewerID string) {
	r.mu.Lock()
	r.views = append(r.views, videoID+"/"+viewerID)
	r.mu.Unlock()
}
