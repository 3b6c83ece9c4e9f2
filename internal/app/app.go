package app

import (
	"fmt"
	"time"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/database"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/database/repo/projects"
	"github.com/anoixa/fish-bed/database/repo/settings"
	"github.com/anoixa/fish-bed/internal/auth"
	"github.com/anoixa/fish-bed/internal/dashboard"
	"github.com/anoixa/fish-bed/internal/janitor"
	"github.com/anoixa/fish-bed/internal/services/cloud"
	"github.com/anoixa/fish-bed/internal/services/image"
	"github.com/anoixa/fish-bed/internal/services/profile"
	"github.com/anoixa/fish-bed/internal/services/project"
	settingsvc "github.com/anoixa/fish-bed/internal/services/settings"
	"github.com/anoixa/fish-bed/internal/worker"
	"github.com/anoixa/fish-bed/storage"
	"github.com/anoixa/fish-bed/utils"
	"github.com/anoixa/fish-bed/utils/generator"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 16
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config         *config.Config
	dbProvider     database.Provider
	storageFactory *storage.Factory
	cacheProvider  cache.Provider

	CacheHelper *cache.Helper
	Pool        *worker.Pool

	AccountsRepo *accounts.Repository
	DevicesRepo  *accounts.DeviceRepository
	ImagesRepo   *images.Repository
	ProjectsRepo *projects.Repository
	SettingsRepo *settings.Repository

	JWTService   *auth.JWTService
	LoginService *auth.LoginService

	UploadService *image.UploadService
	CameraService *image.CameraService
	QueryService  *image.QueryService
	DeleteService *image.DeleteService

	CloudService     *cloud.Service
	DashboardService *dashboard.Service
	ProjectService   *project.Service
	SettingsService  *settingsvc.Service
	ProfileService   *profile.Service
	Janitor          *janitor.Janitor
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 按配置初始化数据库、存储、缓存与全部服务
func (c *Container) Init() error {
	if err := c.InitDatabase(); err != nil {
		return err
	}

	factory, err := storage.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}

	cacheProvider, err := cache.NewFromConfig(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	return c.InitWith(c.dbProvider, factory, cacheProvider)
}

// InitDatabase 仅连接数据库并迁移，命令行工具使用
func (c *Container) InitDatabase() error {
	utils.LogIfDev("Initializing DI container...")

	provider, err := database.NewGormProvider(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := provider.AutoMigrate(database.AllModels()...); err != nil {
		_ = provider.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.dbProvider = provider
	c.initRepositories()
	return nil
}

// InitWith 使用现成的组件装配服务
func (c *Container) InitWith(dbProvider database.Provider, factory *storage.Factory, cacheProvider cache.Provider) error {
	c.dbProvider = dbProvider
	c.storageFactory = factory
	c.cacheProvider = cacheProvider
	c.initRepositories()

	c.CacheHelper = cache.NewHelper(cacheProvider, cache.HelperConfig{
		ImageListTTL: c.config.CacheListTTL,
	})

	jwtService, err := auth.NewJWTService(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}
	c.JWTService = jwtService
	c.LoginService = auth.NewLoginService(c.AccountsRepo, c.DevicesRepo, jwtService)

	c.initImageServices()

	c.DashboardService = dashboard.NewService(
		dashboard.NewRepository(c.AccountsRepo, c.ImagesRepo, c.ProjectsRepo), c.CacheHelper)
	c.ProjectService = project.NewService(c.ProjectsRepo, c.CacheHelper)
	c.SettingsService = settingsvc.NewService(c.SettingsRepo, c.CacheHelper)
	c.ProfileService = profile.NewService(c.AccountsRepo, c.CacheHelper)

	c.Pool = worker.NewPool(defaultWorkers, defaultQueueSize)
	c.Janitor = janitor.New(c.ImagesRepo, c.DevicesRepo, c.Storage(), c.CacheHelper)

	utils.LogIfDev("DI container initialized successfully")
	return nil
}

func (c *Container) initRepositories() {
	db := c.dbProvider.DB()
	c.AccountsRepo = accounts.NewRepository(db)
	c.DevicesRepo = accounts.NewDeviceRepository(db)
	c.ImagesRepo = images.NewRepository(db)
	c.ProjectsRepo = projects.NewRepository(db)
	c.SettingsRepo = settings.NewRepository(db)
}

func (c *Container) initImageServices() {
	provider := c.Storage()

	c.UploadService = image.NewUploadService(c.ImagesRepo, provider, c.CacheHelper, generator.NewPathGenerator(), image.UploadOptions{
		MaxFileSize:   c.config.UploadMaxSize(),
		MaxBatchFiles: c.config.UploadMaxBatchFiles,
		MaxBatchTotal: c.config.UploadMaxBatchTotal(),
		TempDir:       c.config.UploadTempDir,
	})
	c.CameraService = image.NewCameraService(c.UploadService, c.config.MaxFrameDimension())
	c.QueryService = image.NewQueryService(c.ImagesRepo, c.CacheHelper, c.config.BaseURL())
	c.DeleteService = image.NewDeleteService(c.ImagesRepo, provider, c.CacheHelper)

	c.CloudService = cloud.NewService(cloud.Config{
		GoogleAPIKey:   c.config.GoogleAPIKey,
		GoogleClientID: c.config.GoogleClientID,
		DropboxAppKey:  c.config.DropboxAppKey,
	}, c.UploadService)
}

// JanitorOptions 按配置生成清理参数
func (c *Container) JanitorOptions(dryRun bool) janitor.Options {
	return janitor.Options{
		TempDir:    c.config.UploadTempDir,
		TempMaxAge: 24 * time.Hour,
		DryRun:     dryRun,
	}
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDatabaseProvider 获取数据库提供者
func (c *Container) GetDatabaseProvider() database.Provider {
	return c.dbProvider
}

// GetCacheProvider 获取缓存提供者
func (c *Container) GetCacheProvider() cache.Provider {
	return c.cacheProvider
}

// Storage 默认存储提供者
func (c *Container) Storage() storage.Provider {
	if c.storageFactory == nil {
		return nil
	}
	return c.storageFactory.GetDefault()
}

// Close 关闭所有服务
func (c *Container) Close() error {
	utils.LogIfDev("Closing DI container...")

	if c.Pool != nil {
		c.Pool.Stop()
		stats := c.Pool.GetStats()
		utils.LogIfDevf("Worker pool stopped: submitted=%d executed=%d failed=%d dropped=%d",
			stats.Submitted, stats.Executed, stats.Failed, stats.Dropped)
	}
	if c.cacheProvider != nil {
		if err := c.cacheProvider.Close(); err != nil {
			utils.LogIfDevf("Error closing cache provider: %v", err)
		}
	}
	if c.dbProvider != nil {
		if err := c.dbProvider.Close(); err != nil {
			utils.LogIfDevf("Error closing database: %v", err)
		}
	}

	utils.LogIfDev("DI container closed")
	return nil
}
