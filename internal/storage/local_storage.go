package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"farmshare-backend/internal/logger"

	"github.com/google/uuid"
)

var contentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|gif)$`)

// NewKey returns a fresh storage key for an image of the given content type.
func NewKey(contentType string) (string, error) {
	ext, ok := contentTypeExt[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return uuid.NewString() + ext, nil
}

// ValidKey reports whether key has the shape NewKey produces. Anything else
// could escape the upload directory.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// ContentType returns the MIME type for a stored key.
func ContentType(key string) string {
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}

// LocalStorage keeps images on the local filesystem and serves them back
// through the API.
type LocalStorage struct {
	baseURL   string
	imagesDir string
	maxBytes  int64
}

// NewLocalStorage creates uploadsDir/images if needed. maxBytes <= 0 means no limit.
func NewLocalStorage(baseURL, uploadsDir string, maxBytes int64) (*LocalStorage, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &LocalStorage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: imagesDir,
		maxBytes:  maxBytes,
	}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.imagesDir, key), nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader) (int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return 0, err
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	src := reader
	if s.maxBytes > 0 {
		src = io.LimitReader(reader, s.maxBytes+1)
	}
	n, err := io.Copy(file, src)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		if errors.Is(err, ErrFileTooLarge) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug("Image stored", "key", key, "bytes", n)
	return n, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return fmt.Sprintf("%s/api/v1/images/%s", s.baseURL, key)
}
