package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

// MinioStorage 基于 minio / S3 兼容存储的实现
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	region  string
	baseURL string
	probe   func(path string) (float64, error)
}

func NewMinioStorage(cfg config.MediaConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(base, "/"),
		probe:   ProbeDuration,
	}, nil
}

// EnsureBucket 存储桶不存在时创建
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	logger.Info("media bucket created", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinioStorage) Store(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	key := ObjectKey(kind, uuid.New().String(), ext)
	opts := minio.PutObjectOptions{ContentType: contentType(ext, kind)}
	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, opts); err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	asset := &Asset{URL: ObjectURL(s.baseURL, s.bucket, key)}
	if kind == KindVideo && s.probe != nil {
		d, err := s.probe(localPath)
		if err != nil {
			// 时长缺失不影响上传
			logger.Warn("probe video duration failed", zap.String("object", key), zap.Error(err))
		}
		asset.Duration = d
	}
	return asset, nil
}

func (s *MinioStorage) Remove(ctx context.Context, url string, kind Kind) error {
	key, ok := KeyFromURL(s.baseURL, s.bucket, url)
	if !ok {
		return ErrUnknownURL
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	return nil
}

// ObjectKey 对象路径：<kind>/<id><ext>
func ObjectKey(kind Kind, id, ext string) string {
	return fmt.Sprintf("%s/%s%s", kind, id, ext)
}

func ObjectURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), bucket, key)
}

// KeyFromURL ObjectURL 的逆运算
func KeyFromURL(baseURL, bucket, url string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func contentType(ext string, kind Kind) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if kind == KindVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
