package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	p := "42/1700000000000-abcdef0123456789.jpg"

	require.NoError(t, s.SaveWithContext(ctx, p, strings.NewReader("fish bytes")))

	exists, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := s.GetWithContext(ctx, p)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "fish bytes", string(data))
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}

	require.NoError(t, s.DeleteWithContext(ctx, p))

	exists, err = s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_NotFound(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	_, err := s.GetWithContext(ctx, "1/missing.png")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.DeleteWithContext(ctx, "1/missing.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	attempts := []string{
		"../../../etc/passwd",
		"..\\..\\windows\\system32",
		"../.env",
		"..",
		"",
		"/etc/passwd",
		"folder/../../../etc/passwd",
		"1/file name.jpg",
	}

	for _, attempt := range attempts {
		t.Run("save_"+attempt, func(t *testing.T) {
			err := s.SaveWithContext(ctx, attempt, strings.NewReader("x"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid")
		})
		t.Run("get_"+attempt, func(t *testing.T) {
			_, err := s.GetWithContext(ctx, attempt)
			assert.Error(t, err)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLocalStorage_SaveFailureRemovesPartialFile(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	err := s.SaveWithContext(ctx, "3/partial.jpg", io.MultiReader(strings.NewReader("half"), failingReader{}))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(s.BasePath(), "3", "partial.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	s := newTestLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveWithContext(ctx, "1/a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStorage_ConcurrentSaves(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := filepath.ToSlash(filepath.Join("9", strings.Repeat("a", i+1)+".jpg"))
			assert.NoError(t, s.SaveWithContext(ctx, p, strings.NewReader("x")))
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(s.BasePath(), "9"))
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestIsValidStoragePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"1/1700000000000-ab12.jpg", true},
		{"1/1700000000000-camera.jpg", true},
		{"a_b-c.d/e", true},
		{"", false},
		{"/abs/path.jpg", false},
		{"1/../2.jpg", false},
		{"1/with space.jpg", false},
		{"1/ünïcode.jpg", false},
		{strings.Repeat("a", 513), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidStoragePath(tt.path), tt.path)
	}
}

func TestFactory_WithProvider(t *testing.T) {
	s := newTestLocal(t)
	f := NewFactoryWithProvider(s)

	assert.Equal(t, "local", f.GetDefaultName())
	assert.Equal(t, s, f.GetDefault())
	assert.Equal(t, []string{"local"}, f.ListProviders())

	_, err := f.Get("minio")
	assert.Error(t, err)

	p, err := f.Get("")
	require.NoError(t, err)
	assert.Equal(t, s, p)
}
