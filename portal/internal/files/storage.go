package files

//go:generate go tool mockgen -destination storage_mock.go -package files . Storage

import (
	"context"
	"io"
	"time"

	"github.com/aiuniverse/universe/internal/s3wrap"
)

type Storage interface {
	List(ctx context.Context, prefix string) ([]s3wrap.ObjectMetaData, error)
	Head(ctx context.Context, key string) (*s3wrap.ObjectMetaData, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// S3Storage binds an s3wrap client to one bucket.
type S3Storage struct {
	client *s3wrap.Client
	bucket string
}

func NewS3Storage(client *s3wrap.Client, bucket string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
	}
}

func (s *S3Storage) List(ctx context.Context, prefix string) ([]s3wrap.ObjectMetaData, error) {
	return s.client.ListObjects(ctx, s.bucket, s3wrap.WithPrefix(prefix))
}

func (s *S3Storage) Head(ctx context.Context, key string) (*s3wrap.ObjectMetaData, error) {
	return s.client.HeadObject(ctx, s.bucket, key)
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return s.client.PutObject(ctx, s.bucket, key, body, size, contentType)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	return s.client.DeleteObjects(ctx, s.bucket, []string{key})
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.client.GetPresignedGetURL(ctx, s.bucket, key, expires)
}
