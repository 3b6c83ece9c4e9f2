package storage

import (
	"fmt"
	"log"
	"sort"

	"github.com/anoixa/fish-bed/config"
)

// Factory 存储工厂，持有已初始化的提供者与默认提供者
type Factory struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewFactory 按配置初始化 storage_type 指定的提供者
func NewFactory(cfg *config.Config) (*Factory, error) {
	factory := &Factory{
		providers: make(map[string]Provider),
	}

	log.Printf("[Storage] Initializing storage provider: %s", cfg.StorageType)

	var provider Provider
	var err error

	switch cfg.StorageType {
	case "local", "":
		provider, err = NewLocalStorage(cfg.StorageLocalPath)
	case "minio":
		provider, err = NewMinioStorage(MinioConfig{
			Endpoint:        cfg.StorageMinioEndpoint,
			AccessKeyID:     cfg.StorageMinioAccessID,
			SecretAccessKey: cfg.StorageMinioSecret,
			BucketName:      cfg.StorageMinioBucket,
			UseSSL:          cfg.StorageMinioUseSSL,
		})
	case "webdav":
		provider, err = NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.StorageWebDAVURL,
			Username: cfg.StorageWebDAVUser,
			Password: cfg.StorageWebDAVPass,
			RootPath: cfg.StorageWebDAVRoot,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageType, err)
	}

	factory.Register(provider.Name(), provider, true)
	log.Printf("[Storage] Default storage provider set to: '%s'", factory.defaultProvider)

	return factory, nil
}

// NewFactoryWithProvider 使用现成的提供者构造工厂
func NewFactoryWithProvider(provider Provider) *Factory {
	factory := &Factory{providers: make(map[string]Provider)}
	factory.Register(provider.Name(), provider, true)
	return factory
}

// Register 注册提供者
func (f *Factory) Register(name string, provider Provider, isDefault bool) {
	f.providers[name] = provider
	if isDefault || f.defaultProvider == "" {
		f.defaultProvider = name
	}
}

// Get 获取指定名称的存储提供者，空名称返回默认
func (f *Factory) Get(name string) (Provider, error) {
	if name == "" {
		name = f.defaultProvider
	}

	provider, ok := f.providers[name]
	if !ok {
		return nil, fmt.Errorf("storage provider '%s' not found", name)
	}
	return provider, nil
}

// GetDefault 获取默认存储提供者
func (f *Factory) GetDefault() Provider {
	provider, _ := f.Get(f.defaultProvider)
	return provider
}

// GetDefaultName 获取默认存储提供者名称
func (f *Factory) GetDefaultName() string {
	return f.defaultProvider
}

// ListProviders 列出所有可用的存储提供者名称
func (f *Factory) ListProviders() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
