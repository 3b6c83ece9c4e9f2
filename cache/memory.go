package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto"
)

// MemoryConfig 内存缓存配置
type MemoryConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// MemoryCache 基于 ristretto 的进程内缓存，值以 JSON 字节存储，cost 为字节数
type MemoryCache struct {
	client *ristretto.Cache
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(cfg MemoryConfig) (*MemoryCache, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 100000
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryCache{client: client}, nil
}

// Set 设置缓存项
func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, ok := value.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(value)
		if err != nil {
			return err
		}
	}

	if !m.client.SetWithTTL(key, data, int64(len(data)), expiration) {
		return ErrSetRejected
	}
	// 等待写缓冲落地，保证随后的 Get 可见
	m.client.Wait()
	return nil
}

// Get 获取缓存项
func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := m.client.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}

	if byteDest, ok := dest.(*[]byte); ok {
		*byteDest = data
		return nil
	}

	return json.Unmarshal(data, dest)
}

// Delete 删除缓存项
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.client.Del(key)
	return nil
}

// Exists 检查缓存项是否存在
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, found := m.client.Get(key)
	return found, nil
}

// Close 关闭缓存
func (m *MemoryCache) Close() error {
	m.client.Close()
	return nil
}

// Name 返回缓存名称
func (m *MemoryCache) Name() string {
	return "memory"
}
