// Package objstore uploads files to S3-compatible object storage.
package objstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/logger"
)

type Uploader interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (Upload, error)
}

// Upload is the stored object's key and its public URL.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type S3Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func New(cfg *config.S3) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the object under a fresh key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (Upload, error) {
	key := objectKey(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Log.Error("object upload failed", "bucket", s.bucket, "key", key, "error", err)
		return Upload{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return Upload{Key: key, URL: s.publicURL(key)}, nil
}

// objectKey keeps the original extension but nothing else from the
// client-supplied filename.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return "uploads/" + uuid.NewString() + ext
}

func (s *S3Store) publicURL(key string) string {
	return s.publicBaseURL + "/" + key
}
