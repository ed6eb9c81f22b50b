package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key, err := NewKey("image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.True(t, ValidKey(key))

	_, err = NewKey("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidKey(t *testing.T) {
	assert.False(t, ValidKey("../etc/passwd"))
	assert.False(t, ValidKey("tractor.jpg"))
	assert.False(t, ValidKey("0b7e1a52-5a2c-4c1e-9d7a-2f3f4e5d6c7b.exe"))
	assert.True(t, ValidKey("0b7e1a52-5a2c-4c1e-9d7a-2f3f4e5d6c7b.gif"))
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage("http://localhost:8080/", t.TempDir(), 0)
	require.NoError(t, err)

	key, err := NewKey("image/jpeg")
	require.NoError(t, err)

	n, err := s.Save(ctx, key, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	assert.Equal(t, "http://localhost:8080/api/v1/images/"+key, s.URL(key))
	assert.Equal(t, "image/jpeg", ContentType(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_Limits(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage("", t.TempDir(), 4)
	require.NoError(t, err)

	key, err := NewKey("image/gif")
	require.NoError(t, err)

	_, err = s.Save(ctx, key, strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Save(ctx, "../escape.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
