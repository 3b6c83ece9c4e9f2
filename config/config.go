package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`
	ServerMaxInflight  int64         `mapstructure:"server_max_inflight"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// 存储配置
	StorageType          string `mapstructure:"storage_type"`
	StorageLocalPath     string `mapstructure:"storage_local_path"`
	StorageMinioEndpoint string `mapstructure:"storage_minio_endpoint"`
	StorageMinioAccessID string `mapstructure:"storage_minio_access_key_id"`
	StorageMinioSecret   string `mapstructure:"storage_minio_secret_access_key"`
	StorageMinioBucket   string `mapstructure:"storage_minio_bucket"`
	StorageMinioUseSSL   bool   `mapstructure:"storage_minio_use_ssl"`
	StorageWebDAVURL     string `mapstructure:"storage_webdav_url"`
	StorageWebDAVUser    string `mapstructure:"storage_webdav_username"`
	StorageWebDAVPass    string `mapstructure:"storage_webdav_password"`
	StorageWebDAVRoot    string `mapstructure:"storage_webdav_root"`

	// 缓存提供者配置
	CacheType          string        `mapstructure:"cache_type"`
	CacheRedisAddr     string        `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string        `mapstructure:"cache_redis_password"`
	CacheRedisDB       int           `mapstructure:"cache_redis_db"`
	CacheMaxCostMB     int64         `mapstructure:"cache_max_cost_mb"`
	CacheListTTL       time.Duration `mapstructure:"cache_list_ttl"`

	// JWT 配置
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTAccessTokenTTL  time.Duration `mapstructure:"jwt_access_token_ttl"`
	JWTRefreshTokenTTL time.Duration `mapstructure:"jwt_refresh_token_ttl"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitFileRPS    float64       `mapstructure:"rate_limit_file_rps"`
	RateLimitFileBurst  int           `mapstructure:"rate_limit_file_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 上传配置
	UploadMaxSizeMB       int    `mapstructure:"upload_max_size_mb"`
	UploadMaxBatchTotalMB int    `mapstructure:"upload_max_batch_total_mb"`
	UploadMaxBatchFiles   int    `mapstructure:"upload_max_batch_files"`
	UploadMaxDimension    int    `mapstructure:"upload_max_dimension"`
	UploadTempDir         string `mapstructure:"upload_temp_dir"`

	// 云盘选择器配置
	GoogleAPIKey   string `mapstructure:"google_api_key"`
	GoogleClientID string `mapstructure:"google_client_id"`
	DropboxAppKey  string `mapstructure:"dropbox_app_key"`

	// 界面默认语言
	DefaultLanguage string `mapstructure:"default_language"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	configFile := viper.GetString("config_file_path")
	if configFile == "" {
		configFile = ".env"
	}
	viper.SetConfigFile(configFile)
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Info: %s not found, using defaults and environment variables\n", configFile)
	} else {
		fmt.Fprintf(os.Stderr, "Info: Loaded configuration from %s\n", configFile)
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		_ = viper.BindEnv(key, strings.ToUpper(key))
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	for key, value := range Defaults() {
		viper.SetDefault(key, value)
	}
}

// Defaults 返回所有配置项的默认值
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"server_host":          "127.0.0.1",
		"server_port":          8080,
		"server_domain":        "",
		"server_read_timeout":  "15s",
		"server_write_timeout": "60s",
		"server_idle_timeout":  "120s",
		"server_max_inflight":  100,

		"db_type":              "sqlite",
		"db_host":              "localhost",
		"db_port":              5432,
		"db_username":          "postgres",
		"db_password":          "",
		"db_name":              "fish-bed",
		"db_file_path":         "./data/fish.db",
		"db_max_open_conns":    100,
		"db_max_idle_conns":    25,
		"db_conn_max_lifetime": 3600,

		"storage_type":                    "local",
		"storage_local_path":              "./data/fish-images",
		"storage_minio_endpoint":          "",
		"storage_minio_access_key_id":     "",
		"storage_minio_secret_access_key": "",
		"storage_minio_bucket":            "fish-images",
		"storage_minio_use_ssl":           false,
		"storage_webdav_url":              "",
		"storage_webdav_username":         "",
		"storage_webdav_password":         "",
		"storage_webdav_root":             "/fish-images",

		"cache_type":           "memory",
		"cache_redis_addr":     "localhost:6379",
		"cache_redis_password": "",
		"cache_redis_db":       0,
		"cache_max_cost_mb":    64,
		"cache_list_ttl":       "5m",

		"jwt_secret":            "",
		"jwt_access_token_ttl":  "30m",
		"jwt_refresh_token_ttl": "168h",

		"rate_limit_api_rps":     30.0,
		"rate_limit_api_burst":   60,
		"rate_limit_file_rps":    100.0,
		"rate_limit_file_burst":  200,
		"rate_limit_auth_rps":    0.5,
		"rate_limit_auth_burst":  5,
		"rate_limit_expire_time": "10m",

		"upload_max_size_mb":        20,
		"upload_max_batch_total_mb": 200,
		"upload_max_batch_files":    20,
		"upload_max_dimension":      4096,
		"upload_temp_dir":           "./data/temp",

		"google_api_key":   "",
		"google_client_id": "",
		"dropbox_app_key":  "",

		"default_language": "en",
	}
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成图片公开链接
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return strings.TrimRight(c.ServerDomain, "/")
	}
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// UploadMaxSize 单文件大小上限（字节）
func (c *Config) UploadMaxSize() int64 {
	if c.UploadMaxSizeMB <= 0 {
		return 20 << 20
	}
	return int64(c.UploadMaxSizeMB) << 20
}

// UploadMaxBatchTotal 批量上传总大小上限（字节）
func (c *Config) UploadMaxBatchTotal() int64 {
	if c.UploadMaxBatchTotalMB <= 0 {
		return 200 << 20
	}
	return int64(c.UploadMaxBatchTotalMB) << 20
}

// RequestBodyLimit 请求体大小上限，为批量上传总限制的 2 倍，最小 100MB
func (c *Config) RequestBodyLimit() int64 {
	limit := c.UploadMaxBatchTotal() * 2
	if limit < 100<<20 {
		limit = 100 << 20
	}
	return limit
}

// MaxFrameDimension 拍摄帧解码前允许的最大宽高（像素）
func (c *Config) MaxFrameDimension() int {
	if c.UploadMaxDimension <= 0 {
		return 4096
	}
	return c.UploadMaxDimension
}
