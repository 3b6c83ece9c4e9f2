package cache

import (
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/config"
)

// NewFromConfig 按 cache_type 创建缓存提供者
func NewFromConfig(cfg *config.Config) (Provider, error) {
	log.Printf("[Cache] Initializing cache provider: %s", cfg.CacheType)

	switch cfg.CacheType {
	case "memory", "":
		return NewMemoryCache(MemoryConfig{
			NumCounters: 100000,
			MaxCost:     cfg.CacheMaxCostMB << 20,
			BufferItems: 64,
			Metrics:     false,
		})
	case "redis":
		return NewRedisCache(RedisConfig{
			Address:  cfg.CacheRedisAddr,
			Password: cfg.CacheRedisPassword,
			DB:       cfg.CacheRedisDB,
			PoolSize: 10,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
