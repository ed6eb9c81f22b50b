package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound        = errors.New("image not found")
	ErrInvalidKey      = errors.New("invalid image key")
	ErrUnsupportedType = errors.New("unsupported image content type")
	ErrFileTooLarge    = errors.New("image exceeds the size limit")
)

// ImageStore keeps equipment photos. Keys are generated by NewKey and are
// the references stored in an equipment listing's images.
type ImageStore interface {
	// Save writes the image and returns the number of bytes stored.
	Save(ctx context.Context, key string, reader io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL is the public download address of key.
	URL(key string) string
}
