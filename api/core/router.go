package core

import (
	"net/http"
	"time"

	"github.com/anoixa/fish-bed/api/common"
	authHandler "github.com/anoixa/fish-bed/api/handler/auth"
	cloudHandler "github.com/anoixa/fish-bed/api/handler/cloud"
	dashboardHandler "github.com/anoixa/fish-bed/api/handler/dashboard"
	filesHandler "github.com/anoixa/fish-bed/api/handler/files"
	imagesHandler "github.com/anoixa/fish-bed/api/handler/images"
	profileHandler "github.com/anoixa/fish-bed/api/handler/profile"
	projectsHandler "github.com/anoixa/fish-bed/api/handler/projects"
	settingsHandler "github.com/anoixa/fish-bed/api/handler/settings"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/internal/app"
	"github.com/anoixa/fish-bed/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var startTime = time.Now()

// NewRouter 组装中间件与全部路由，返回的清理函数停止限流器
func NewRouter(container *app.Container) (*gin.Engine, func()) {
	cfg := container.GetConfig()
	router := gin.New()

	// 仅在开发版本时启用 gin 日志
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	_ = router.SetTrustedProxies(nil)
	router.MaxMultipartMemory = cfg.UploadMaxSize()
	router.Use(middleware.MaxBytesReader(cfg.RequestBodyLimit()))

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Language())
	router.Use(middleware.NewConcurrencyLimiter(cfg.ServerMaxInflight).Middleware())

	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	fileRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitFileRPS, cfg.RateLimitFileBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
		fileRateLimiter.StopCleanup()
	}

	registerBasicRoutes(router, container)

	// 公开文件访问
	files := filesHandler.NewHandler(container.Storage())
	filesGroup := router.Group(utils.FilesRoutePrefix)
	filesGroup.Use(fileRateLimiter.Middleware())
	{
		filesGroup.GET("/*path", files.Serve) // GET /files/{path}
	}

	registerAPIRoutes(router, container, authRateLimiter, apiRateLimiter)

	return router, cleanup
}

func registerBasicRoutes(router *gin.Engine, container *app.Container) {
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		checks := gin.H{
			"database": checkDatabaseHealth(ctx, container.GetDatabaseProvider()),
			"cache":    checkCacheHealth(ctx, container.GetCacheProvider()),
			"storage":  checkStorageHealth(ctx, container.Storage()),
		}

		status := http.StatusOK
		for _, result := range checks {
			if result != "ok" {
				status = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks":  checks,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		common.RespondSuccess(c, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIRoutes(router *gin.Engine, container *app.Container, authRateLimiter, apiRateLimiter *middleware.IPRateLimiter) {
	login := authHandler.NewHandler(container.LoginService, container.JWTService)
	images := imagesHandler.NewHandler(container.UploadService, container.CameraService, container.QueryService, container.DeleteService)
	cloud := cloudHandler.NewHandler(container.CloudService, container.QueryService)
	profile := profileHandler.NewHandler(container.ProfileService)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(c *gin.Context) { // 所有API禁止缓存
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.GET("/session", login.Session)    // GET /api/auth/session
			authGroup.POST("/register", login.Register) // POST /api/auth/register
			authGroup.POST("/login", login.Login)       // POST /api/auth/login
			authGroup.POST("/refresh", login.Refresh)   // POST /api/auth/refresh
			authGroup.POST("/logout", login.Logout)     // POST /api/auth/logout
		}

		v1 := apiGroup.Group("/v1")
		v1.Use(apiRateLimiter.Middleware())
		v1.Use(middleware.Auth(container.JWTService))
		v1.Use(middleware.PreferredLanguage(container.SettingsService))
		{
			imagesGroup := v1.Group("/images")
			{
				imagesGroup.POST("/upload", images.UploadImages) // POST /api/v1/images/upload
				imagesGroup.GET("", images.ListImages)           // GET /api/v1/images
				imagesGroup.GET("/:id", images.GetImage)         // GET /api/v1/images/{id}
				imagesGroup.POST("/delete", images.DeleteImages) // POST /api/v1/images/delete
				imagesGroup.DELETE("/:id", images.DeleteImage)   // DELETE /api/v1/images/{id}
			}

			v1.POST("/camera/capture", images.CaptureFrame) // POST /api/v1/camera/capture

			cloudGroup := v1.Group("/cloud")
			{
				cloudGroup.GET("/config", cloud.GetConfig)         // GET /api/v1/cloud/config
				cloudGroup.POST("/:provider/import", cloud.Import) // POST /api/v1/cloud/{provider}/import
			}

			v1.GET("/profile", profile.Get)    // GET /api/v1/profile
			v1.PUT("/profile", profile.Update) // PUT /api/v1/profile

			dashboardHandler.NewHandler(container.DashboardService).SetupRoutes(v1)
			projectsHandler.NewHandler(container.ProjectService).SetupRoutes(v1)
			settingsHandler.NewHandler(container.SettingsService).SetupRoutes(v1)
		}
	}
}
