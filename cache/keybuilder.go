package cache

import (
	"fmt"
	"strings"
)

// KeyBuilder 缓存键构建器
type KeyBuilder struct {
	prefix string
	sep    string
}

// NewKeyBuilder 创建新的键构建器
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
		sep:    ":",
	}
}

// Build 构建缓存键
func (kb *KeyBuilder) Build(parts ...string) string {
	if len(parts) == 0 {
		return kb.prefix
	}
	return kb.prefix + kb.sep + strings.Join(parts, kb.sep)
}

// BuildID 构建带 ID 的缓存键
func (kb *KeyBuilder) BuildID(id interface{}) string {
	return fmt.Sprintf("%s%s%v", kb.prefix, kb.sep, id)
}

var (
	// User 用户缓存
	User = NewKeyBuilder("user")

	// ImageList 图库分页缓存，键中包含列表版本号
	ImageList = NewKeyBuilder("fish_image_list")

	// ImageListVersion 图库列表版本号，写操作后递增使旧分页失效
	ImageListVersion = NewKeyBuilder("fish_image_list_version")

	// Settings 用户设置缓存
	Settings = NewKeyBuilder("settings")

	// Dashboard 首页统计缓存
	Dashboard = NewKeyBuilder("dashboard")
)
