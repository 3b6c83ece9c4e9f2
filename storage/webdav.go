package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
	Timeout  time.Duration
}

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client   *gowebdav.Client
	baseURL  string
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者，根目录不存在时自动创建
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, errors.New("webdav URL is required")
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	s := &WebDAVStorage{
		client:   client,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		rootPath: normalizeRoot(cfg.RootPath),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.rootPath != "" {
		if err := runWithContext(ctx, func() error {
			return client.MkdirAll(s.rootPath, 0755)
		}); err != nil {
			return nil, fmt.Errorf("failed to create webdav root %s: %w", s.rootPath, err)
		}
	}

	if err := s.Health(ctx); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return s, nil
}

func normalizeRoot(rootPath string) string {
	rootPath = strings.Trim(rootPath, "/")
	if rootPath == "" {
		return ""
	}
	return "/" + rootPath
}

// runWithContext gowebdav 不支持 context，放到 goroutine 中执行并监听取消
func runWithContext(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(storagePath string) string {
	storagePath = strings.TrimLeft(storagePath, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + storagePath
	}
	return "/" + storagePath
}

// SaveWithContext 保存文件到 WebDAV，父目录按需创建
func (s *WebDAVStorage) SaveWithContext(ctx context.Context, storagePath string, file io.Reader) error {
	if !IsValidStoragePath(storagePath) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}

	fullPath := s.fullPath(storagePath)

	if parent := path.Dir(fullPath); parent != "/" && parent != "." {
		if err := runWithContext(ctx, func() error {
			return s.client.MkdirAll(parent, 0755)
		}); err != nil {
			return fmt.Errorf("failed to ensure parent directory for %s: %w", storagePath, err)
		}
	}

	err := runWithContext(ctx, func() error {
		return s.client.WriteStream(fullPath, file, os.FileMode(0644))
	})
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", storagePath, err)
	}
	return nil
}

// GetWithContext 从 WebDAV 读取整个文件
func (s *WebDAVStorage) GetWithContext(ctx context.Context, storagePath string) (io.ReadSeeker, error) {
	if !IsValidStoragePath(storagePath) {
		return nil, fmt.Errorf("invalid storage path: %s", storagePath)
	}

	var data []byte
	err := runWithContext(ctx, func() error {
		var readErr error
		data, readErr = s.client.Read(s.fullPath(storagePath))
		return readErr
	})
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", storagePath, err)
	}

	return bytes.NewReader(data), nil
}

// DeleteWithContext 从 WebDAV 删除文件
func (s *WebDAVStorage) DeleteWithContext(ctx context.Context, storagePath string) error {
	if !IsValidStoragePath(storagePath) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}

	err := runWithContext(ctx, func() error {
		return s.client.Remove(s.fullPath(storagePath))
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", storagePath, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *WebDAVStorage) Exists(ctx context.Context, storagePath string) (bool, error) {
	if !IsValidStoragePath(storagePath) {
		return false, fmt.Errorf("invalid storage path: %s", storagePath)
	}

	err := runWithContext(ctx, func() error {
		_, statErr := s.client.Stat(s.fullPath(storagePath))
		return statErr
	})
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 读取根目录验证连通性
func (s *WebDAVStorage) Health(ctx context.Context) error {
	root := s.rootPath
	if root == "" {
		root = "/"
	}
	return runWithContext(ctx, func() error {
		_, err := s.client.ReadDir(root)
		return err
	})
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	return "webdav"
}
