package storage

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/webdav"
)

func newTestWebDAV(t *testing.T, root string) *WebDAVStorage {
	t.Helper()

	srv := httptest.NewServer(&webdav.Handler{
		FileSystem: webdav.NewMemFS(),
		LockSystem: webdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)

	s, err := NewWebDAVStorage(WebDAVConfig{URL: srv.URL, RootPath: root})
	require.NoError(t, err)
	return s
}

func TestWebDAVStorage_RequiresURL(t *testing.T) {
	_, err := NewWebDAVStorage(WebDAVConfig{})
	assert.Error(t, err)
}

func TestWebDAVStorage_SaveGetDelete(t *testing.T) {
	s := newTestWebDAV(t, "/fish-images")
	ctx := context.Background()
	p := "5/1700000000000-0011223344556677.png"

	require.NoError(t, s.SaveWithContext(ctx, p, strings.NewReader("png bytes")))

	exists, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := s.GetWithContext(ctx, p)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	require.NoError(t, s.DeleteWithContext(ctx, p))

	exists, err = s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetWithContext(ctx, p)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWebDAVStorage_FullPath(t *testing.T) {
	tests := []struct {
		root, path, want string
	}{
		{"", "1/a.jpg", "/1/a.jpg"},
		{"/fish-images/", "1/a.jpg", "/fish-images/1/a.jpg"},
		{"fish-images", "/1/a.jpg", "/fish-images/1/a.jpg"},
	}

	for _, tt := range tests {
		s := &WebDAVStorage{rootPath: normalizeRoot(tt.root)}
		assert.Equal(t, tt.want, s.fullPath(tt.path))
	}
}

func TestWebDAVStorage_CanceledContext(t *testing.T) {
	s := newTestWebDAV(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveWithContext(ctx, "1/a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Exists(ctx, "1/a.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWebDAVStorage_RejectsInvalidPath(t *testing.T) {
	s := newTestWebDAV(t, "")
	err := s.SaveWithContext(context.Background(), "../escape.jpg", strings.NewReader("x"))
	assert.Error(t, err)
}
