package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("storage object not found")

// Provider 存储提供者接口，对象以相对路径寻址，如 42/1700000000000-ab12cd34.jpg
type Provider interface {
	// SaveWithContext 保存对象，写入失败时实现需清理残留
	SaveWithContext(ctx context.Context, storagePath string, file io.Reader) error

	// GetWithContext 读取对象，返回值若实现 io.Closer 由调用方关闭
	GetWithContext(ctx context.Context, storagePath string) (io.ReadSeeker, error)

	// DeleteWithContext 删除对象
	DeleteWithContext(ctx context.Context, storagePath string) error

	// Exists 检查对象是否存在
	Exists(ctx context.Context, storagePath string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// IsValidStoragePath 校验存储路径是否合法
func IsValidStoragePath(path string) bool {
	if path == "" || len(path) > 512 {
		return false
	}

	// 不允许绝对路径
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false
	}

	// 防止目录遍历
	if strings.Contains(path, "..") {
		return false
	}

	// 只允许安全字符
	for _, r := range path {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' && r != '/' {
			return false
		}
	}

	return true
}
