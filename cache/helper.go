package cache

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// addJitter 添加随机抖动（+0~10%），防止缓存雪崩
func addJitter(duration time.Duration) time.Duration {
	if duration <= 0 {
		return duration
	}
	jitter := time.Duration(rand.Int63n(int64(duration)/10 + 1))
	return duration + jitter
}

const (
	DefaultUserCacheExpiration        = 30 * time.Minute
	DefaultImageListCacheExpiration   = 5 * time.Minute
	DefaultImageListVersionExpiration = 30 * time.Minute
	DefaultSettingsCacheExpiration    = 30 * time.Minute
	DefaultDashboardCacheExpiration   = 1 * time.Minute
)

// HelperConfig 缓存辅助工具配置
type HelperConfig struct {
	ImageListTTL time.Duration
}

// Helper 按业务键封装缓存读写，provider 为 nil 时全部视为未命中
type Helper struct {
	provider Provider
	config   HelperConfig
}

// NewHelper 创建缓存辅助工具
func NewHelper(provider Provider, cfg ...HelperConfig) *Helper {
	c := HelperConfig{ImageListTTL: DefaultImageListCacheExpiration}
	if len(cfg) > 0 && cfg[0].ImageListTTL > 0 {
		c = cfg[0]
	}
	return &Helper{provider: provider, config: c}
}

func (h *Helper) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Set(ctx, key, value, addJitter(ttl))
}

func (h *Helper) get(ctx context.Context, key string, dest interface{}) error {
	if h.provider == nil {
		return ErrCacheMiss
	}
	return h.provider.Get(ctx, key, dest)
}

func (h *Helper) del(ctx context.Context, key string) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Delete(ctx, key)
}

func userKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// CacheUser 缓存用户信息
func (h *Helper) CacheUser(ctx context.Context, userID uint, user interface{}) error {
	return h.set(ctx, User.BuildID(userID), user, DefaultUserCacheExpiration)
}

// GetCachedUser 获取缓存的用户信息
func (h *Helper) GetCachedUser(ctx context.Context, userID uint, dest interface{}) error {
	return h.get(ctx, User.BuildID(userID), dest)
}

// DeleteCachedUser 删除缓存的用户
func (h *Helper) DeleteCachedUser(ctx context.Context, userID uint) error {
	return h.del(ctx, User.BuildID(userID))
}

// GetImageListVersion 获取用户图库列表版本号，不存在时写入新版本
// ok 为 false 表示版本号无法保存，调用方应绕过列表缓存
func (h *Helper) GetImageListVersion(ctx context.Context, userID uint) (version int64, ok bool) {
	if h.provider == nil {
		return 0, false
	}
	key := ImageListVersion.BuildID(userID)
	if err := h.get(ctx, key, &version); err == nil {
		return version, true
	}

	version = time.Now().UnixNano()
	if err := h.set(ctx, key, version, DefaultImageListVersionExpiration); err != nil {
		return 0, false
	}
	return version, true
}

// BumpImageListVersion 写入新版本号，使该用户所有图库分页缓存失效
// 写入失败时删除版本号，下次读取会生成新版本，旧分页不再命中
func (h *Helper) BumpImageListVersion(ctx context.Context, userID uint) error {
	if h.provider == nil {
		return nil
	}
	key := ImageListVersion.BuildID(userID)
	version := time.Now().UnixNano()

	err := h.set(ctx, key, version, DefaultImageListVersionExpiration)
	if err == nil {
		// 内存缓存可能在准入阶段丢弃新键，读回确认
		var stored int64
		if h.get(ctx, key, &stored) == nil && stored == version {
			return nil
		}
		err = ErrSetRejected
	}
	if delErr := h.del(ctx, key); delErr != nil {
		return fmt.Errorf("failed to bump image list version: %w (delete: %v)", err, delErr)
	}
	return err
}

func imageListKey(userID uint, version int64, query string) string {
	return ImageList.Build(userKey(userID), strconv.FormatInt(version, 10), query)
}

// CacheImageList 缓存一页图库查询结果
func (h *Helper) CacheImageList(ctx context.Context, userID uint, version int64, query string, page interface{}) error {
	return h.set(ctx, imageListKey(userID, version, query), page, h.config.ImageListTTL)
}

// GetCachedImageList 获取缓存的图库分页
func (h *Helper) GetCachedImageList(ctx context.Context, userID uint, version int64, query string, dest interface{}) error {
	return h.get(ctx, imageListKey(userID, version, query), dest)
}

// CacheSettings 缓存用户全部设置
func (h *Helper) CacheSettings(ctx context.Context, userID uint, settings map[string]string) error {
	return h.set(ctx, Settings.BuildID(userID), settings, DefaultSettingsCacheExpiration)
}

// GetCachedSettings 获取缓存的用户设置
func (h *Helper) GetCachedSettings(ctx context.Context, userID uint) (map[string]string, error) {
	var settings map[string]string
	if err := h.get(ctx, Settings.BuildID(userID), &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// DeleteCachedSettings 删除缓存的用户设置
func (h *Helper) DeleteCachedSettings(ctx context.Context, userID uint) error {
	return h.del(ctx, Settings.BuildID(userID))
}

// CacheDashboard 缓存首页统计
func (h *Helper) CacheDashboard(ctx context.Context, userID uint, stats interface{}) error {
	return h.set(ctx, Dashboard.BuildID(userID), stats, DefaultDashboardCacheExpiration)
}

// GetCachedDashboard 获取缓存的首页统计
func (h *Helper) GetCachedDashboard(ctx context.Context, userID uint, dest interface{}) error {
	return h.get(ctx, Dashboard.BuildID(userID), dest)
}

// DeleteCachedDashboard 项目增删后失效首页统计
func (h *Helper) DeleteCachedDashboard(ctx context.Context, userID uint) error {
	return h.del(ctx, Dashboard.BuildID(userID))
}

// InvalidateImages 图片增删后调用，失效图库分页与首页统计
func (h *Helper) InvalidateImages(ctx context.Context, userID uint) error {
	bumpErr := h.BumpImageListVersion(ctx, userID)
	if err := h.del(ctx, Dashboard.BuildID(userID)); err != nil {
		return err
	}
	return bumpErr
}
