package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/internal/s3wrap"
)

const (
	rootPrefix = "user-files/"

	DefaultSignedURLExpiry = 60 * time.Second
	MaxSignedURLExpiry     = time.Hour

	maxNameLength = 255
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
)

type FileService struct {
	storage       Storage
	publicBaseURL string
	now           func() time.Time
}

func New(storage Storage, publicBaseURL string) *FileService {
	return &FileService{
		storage:       storage,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		now:           time.Now,
	}
}

func userPrefix(userID string) string {
	return rootPrefix + userID + "/"
}

func objectKey(userID, name string) (string, error) {
	if userID == "" || name == "" || len(name) > maxNameLength {
		return "", ErrInvalidName
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrInvalidName
		}
	}
	return userPrefix(userID) + name, nil
}

// clampExpiry applies the default to non-positive values and caps the rest.
func clampExpiry(expires time.Duration) time.Duration {
	if expires <= 0 {
		return DefaultSignedURLExpiry
	}
	if expires > MaxSignedURLExpiry {
		return MaxSignedURLExpiry
	}
	return expires
}

func (s *FileService) toWeb(obj s3wrap.ObjectMetaData) web.FileObject {
	return web.FileObject{
		Name:         path.Base(obj.Key),
		Key:          obj.Key,
		Size:         obj.Size,
		LastModified: obj.Timestamp,
		PublicURL:    s.PublicURL(obj.Key),
	}
}

func (s *FileService) Upload(ctx context.Context, userID, name string, body io.Reader, size int64, contentType string) (*web.FileObject, error) {
	key, err := objectKey(userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	obj := s.toWeb(s3wrap.ObjectMetaData{
		Key:       key,
		Size:      size,
		Timestamp: s.now().UTC(),
	})
	return &obj, nil
}

func (s *FileService) List(ctx context.Context, userID string) ([]web.FileObject, error) {
	if userID == "" {
		return nil, ErrInvalidName
	}

	objects, err := s.storage.List(ctx, userPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	result := make([]web.FileObject, 0, len(objects))
	for _, obj := range objects {
		result = append(result, s.toWeb(obj))
	}
	return result, nil
}

// PublicURL returns the public address of key, or an empty string when no
// public base URL is configured.
func (s *FileService) PublicURL(key string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return s.publicBaseURL + "/" + key
}

func (s *FileService) SignedURL(ctx context.Context, userID, name string, expires time.Duration) (*web.SignedURL, error) {
	key, err := objectKey(userID, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.Head(ctx, key); err != nil {
		if s3wrap.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("head %s: %w", key, err)
	}

	expires = clampExpiry(expires)
	url, err := s.storage.PresignGet(ctx, key, expires)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	return &web.SignedURL{
		URL:       url,
		ExpiresAt: s.now().UTC().Add(expires),
	}, nil
}

func (s *FileService) Delete(ctx context.Context, userID, name string) error {
	key, err := objectKey(userID, name)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
