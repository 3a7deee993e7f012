package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/captiveportal/portal-cms/pkg/logger"
)

const defaultAdminPassword = "admin123"

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Admin     AdminConfig
	Content   ContentConfig
	Uploads   UploadsConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
	Upstream  UpstreamConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	PublicDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Production reports whether static frontends are served from PublicDir.
func (s ServerConfig) Production() bool {
	return s.Environment == "production"
}

type AdminConfig struct {
	Password   string
	SessionTTL time.Duration
	// SessionStore is "memory" (default) or "redis".
	SessionStore string
}

type ContentConfig struct {
	// Store is "file" (default) or "mongo".
	Store             string
	Path              string
	StrictConcurrency bool
}

type UploadsConfig struct {
	// Backend is "disk" (default) or "minio".
	Backend   string
	AssetsDir string
	MaxBytes  int64
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Presign   bool
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type UpstreamConfig struct {
	ExchangeRateAPIKey string
	Timeout            time.Duration
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("CONTENT_STORE", "file")
	v.SetDefault("CONTENT_PATH", "data/portalContent.json")
	v.SetDefault("CONTENT_STRICT_CONCURRENCY", false)
	v.SetDefault("UPLOAD_BACKEND", "disk")
	v.SetDefault("ASSETS_DIR", "public/assets")
	v.SetDefault("UPLOAD_MAX_BYTES", 50*1024*1024)
	v.SetDefault("MONGODB_DATABASE", "portal")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MINIO_BUCKET", "portal-assets")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 8)

	env := strings.ToLower(strings.TrimSpace(v.GetString("NODE_ENV")))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(v.GetString("SERVER_ENVIRONMENT")))
	}
	if env == "" {
		env = "development"
	}
	port := v.GetString("SERVER_PORT")
	if port == "" {
		port = "3001"
		if env == "production" {
			port = "3000"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			Host:         v.GetString("SERVER_HOST"),
			Environment:  env,
			PublicDir:    v.GetString("PUBLIC_DIR"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Admin: AdminConfig{
			Password:     v.GetString("ADMIN_PASSWORD"),
			SessionTTL:   time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
			SessionStore: strings.ToLower(v.GetString("SESSION_STORE")),
		},
		Content: ContentConfig{
			Store:             strings.ToLower(v.GetString("CONTENT_STORE")),
			Path:              v.GetString("CONTENT_PATH"),
			StrictConcurrency: v.GetBool("CONTENT_STRICT_CONCURRENCY"),
		},
		Uploads: UploadsConfig{
			Backend:   strings.ToLower(v.GetString("UPLOAD_BACKEND")),
			AssetsDir: v.GetString("ASSETS_DIR"),
			MaxBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			Presign:   v.GetBool("MINIO_PRESIGN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Upstream: UpstreamConfig{
			ExchangeRateAPIKey: v.GetString("EXCHANGE_RATE_API_KEY"),
			Timeout:            time.Duration(v.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	if cfg.Admin.Password == "" {
		logger.Warnf("ADMIN_PASSWORD is not set; using the built-in default, change it in production")
		cfg.Admin.Password = defaultAdminPassword
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 24 * time.Hour
	}
	if cfg.Uploads.MaxBytes <= 0 {
		cfg.Uploads.MaxBytes = 50 * 1024 * 1024
	}

	return cfg, nil
}
