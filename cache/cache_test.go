package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *MemoryCache {
	t.Helper()
	c, err := NewMemoryCache(MemoryConfig{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type page struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", page{Items: []string{"a", "b"}, Total: 2}, time.Minute))

	var got page
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, []string{"a", "b"}, got.Items)
	assert.Equal(t, int64(2), got.Total)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k"))
	err = c.Get(ctx, "k", &got)
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCache_RawBytes(t *testing.T) {
	c := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "raw", []byte("hello"), 0))

	var got []byte
	require.NoError(t, c.Get(ctx, "raw", &got))
	assert.Equal(t, "hello", string(got))
}

func TestMemoryCache_Miss(t *testing.T) {
	c := newTestMemory(t)
	var v string
	err := c.Get(context.Background(), "absent", &v)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, "memory", c.Name())
}

func TestAddJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), addJitter(0))
	for i := 0; i < 50; i++ {
		d := addJitter(time.Minute)
		assert.GreaterOrEqual(t, d, time.Minute)
		assert.LessOrEqual(t, d, time.Minute+6*time.Second)
	}
}

func TestKeyBuilder(t *testing.T) {
	assert.Equal(t, "settings:7", Settings.BuildID(uint(7)))
	assert.Equal(t, "fish_image_list:1:0:p1", ImageList.Build("1", "0", "p1"))
	assert.Equal(t, "dashboard", Dashboard.Build())
}

func TestHelper_ImageListVersioning(t *testing.T) {
	h := NewHelper(newTestMemory(t))
	ctx := context.Background()

	v0, ok := h.GetImageListVersion(ctx, 1)
	require.True(t, ok)
	again, _ := h.GetImageListVersion(ctx, 1)
	assert.Equal(t, v0, again)

	require.NoError(t, h.CacheImageList(ctx, 1, v0, "page=1", page{Total: 3}))

	var got page
	require.NoError(t, h.GetCachedImageList(ctx, 1, v0, "page=1", &got))
	assert.Equal(t, int64(3), got.Total)

	require.NoError(t, h.InvalidateImages(ctx, 1))
	v1, ok := h.GetImageListVersion(ctx, 1)
	require.True(t, ok)
	assert.NotEqual(t, v0, v1)

	err := h.GetCachedImageList(ctx, 1, v1, "page=1", &got)
	assert.True(t, IsCacheMiss(err))

	// 其他用户不受影响
	other, ok := h.GetImageListVersion(ctx, 2)
	require.True(t, ok)
	assert.NotEqual(t, v1, other)
}

// rejectingProvider 版本键写入总被拒绝
type rejectingProvider struct {
	*MemoryCache
}

func (p rejectingProvider) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if strings.HasPrefix(key, ImageListVersion.Build()) {
		return ErrSetRejected
	}
	return p.MemoryCache.Set(ctx, key, value, expiration)
}

func TestHelper_RejectedVersionBypassesListCache(t *testing.T) {
	mem := newTestMemory(t)
	ctx := context.Background()

	// 先写入旧版本号与旧分页
	good := NewHelper(mem)
	v0, ok := good.GetImageListVersion(ctx, 1)
	require.True(t, ok)
	require.NoError(t, good.CacheImageList(ctx, 1, v0, "page=1", page{Total: 3}))

	h := NewHelper(rejectingProvider{mem})
	err := h.InvalidateImages(ctx, 1)
	assert.ErrorIs(t, err, ErrSetRejected)

	// 旧版本号已删除，新版本也无法写入，列表缓存被绕过
	_, ok = h.GetImageListVersion(ctx, 1)
	assert.False(t, ok)

	exists, err := mem.Exists(ctx, ImageListVersion.BuildID(uint(1)))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHelper_Settings(t *testing.T) {
	h := NewHelper(newTestMemory(t))
	ctx := context.Background()

	_, err := h.GetCachedSettings(ctx, 5)
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, h.CacheSettings(ctx, 5, map[string]string{"app-theme": "dark"}))
	got, err := h.GetCachedSettings(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "dark", got["app-theme"])

	require.NoError(t, h.DeleteCachedSettings(ctx, 5))
	_, err = h.GetCachedSettings(ctx, 5)
	assert.True(t, IsCacheMiss(err))
}

func TestHelper_NilProvider(t *testing.T) {
	h := NewHelper(nil)
	ctx := context.Background()

	assert.NoError(t, h.CacheDashboard(ctx, 1, page{}))
	var got page
	assert.True(t, IsCacheMiss(h.GetCachedDashboard(ctx, 1, &got)))
	assert.NoError(t, h.InvalidateImages(ctx, 1))
	_, ok := h.GetImageListVersion(ctx, 1)
	assert.False(t, ok)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Address: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)

	_, err = NewRedisCache(RedisConfig{})
	assert.Error(t, err)
}
