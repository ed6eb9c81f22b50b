package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStorageService(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage("http://localhost:8080", t.TempDir(), 16)
	require.NoError(t, err)
	svc := NewImageStorageService(store)

	key, url, err := svc.UploadImage(ctx, session(owner), "tractor.png", "image/png", strings.NewReader("png-data"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "http://localhost:8080/api/v1/images/"+key, url)

	rc, contentType, err := svc.OpenImage(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "png-data", string(data))
	assert.Equal(t, "image/png", contentType)

	_, _, err = svc.UploadImage(ctx, session(owner), "doc.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.UploadImage(ctx, session(owner), "big.jpg", "image/jpeg", strings.NewReader(strings.Repeat("x", 17)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.OpenImage(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
