// Package media stores uploaded video and image files in object storage.
package media

import (
	"context"
	"errors"
)

// Kind 媒体类型，决定对象前缀和是否探测时长
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

var ErrUnknownURL = errors.New("media: url does not belong to this store")

// Asset 上传结果；Duration 只对视频有意义，单位秒
type Asset struct {
	URL      string
	Duration float64
}

// Storage 媒体存储
type Storage interface {
	Store(ctx context.Context, localPath string, kind Kind) (*Asset, error)
	// Remove 对已删除的对象重复调用不报错
	Remove(ctx context.Context, url string, kind Kind) error
}
