package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/captiveportal/portal-cms/internal/config"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// streamPartSize bounds the buffer minio-go allocates per multipart part when
// the object size is unknown.
const streamPartSize = 16 << 20

// MinIOStorage keeps assets in an S3-compatible bucket under "<folder>/<name>".
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func (s *MinIOStorage) Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (string, error) {
	folder, err := CleanFolder(folder)
	if err != nil {
		return "", err
	}
	if name, err = CleanName(name); err != nil {
		return "", err
	}
	key := folder + "/" + name
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, putOptions(size, contentType))
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	logger.Infof("stored asset %s in bucket %s (%d bytes)", key, s.bucket, info.Size)
	return PublicURL(folder, name), nil
}

func putOptions(size int64, contentType string) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if size < 0 {
		opts.PartSize = streamPartSize
	}
	return opts
}

func (s *MinIOStorage) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// perform a stat to ensure object exists
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{Size: st.Size, ContentType: st.ContentType, ModTime: st.LastModified}, nil
}

// PresignedURL returns a presigned GET URL for key valid for expires.
func (s *MinIOStorage) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
