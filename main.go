package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/captiveportal/portal-cms/handlers"
	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/config"
	"github.com/captiveportal/portal-cms/internal/content/service"
	"github.com/captiveportal/portal-cms/internal/content/store"
	"github.com/captiveportal/portal-cms/internal/database"
	"github.com/captiveportal/portal-cms/internal/sessions"
	"github.com/captiveportal/portal-cms/internal/storage"
	"github.com/captiveportal/portal-cms/internal/utility"
	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/metrics"
	"github.com/captiveportal/portal-cms/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		logger.SetFormat(f)
	}
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s content=%s sessions=%s uploads=%s mongo=%v redis=%v",
		cfg.Server.Environment, cfg.Content.Store, cfg.Admin.SessionStore, cfg.Uploads.Backend,
		cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: sessions and the login limiter use it when reachable.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		c := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = c.Close()
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			rdb = c
			defer rdb.Close()
		}
	}

	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		c, err := database.Connect(ctx, cfg.MongoDB)
		if err != nil {
			logger.Warnf("MongoDB unavailable: %v", err)
		} else {
			logger.Infof("connected to MongoDB")
			mongoClient = c
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		}
	}

	var sessionRepo sessions.Repository = sessions.NewMemoryRepository()
	switch {
	case cfg.Admin.SessionStore == "redis" && rdb != nil:
		sessionRepo = sessions.NewRedisRepository(rdb, "")
		logger.Infof("using Redis for session storage")
	case cfg.Admin.SessionStore == "redis":
		logger.Warnf("SESSION_STORE=redis but Redis is unavailable, sessions are kept in memory")
	}
	sessionSvc := sessions.NewService(sessionRepo, cfg.Admin.Password, sessions.WithTTL(cfg.Admin.SessionTTL))

	var contentStore store.Store
	switch {
	case cfg.Content.Store == "mongo" && mongoClient != nil:
		contentStore = store.NewMongoStore(database.Content(mongoClient, cfg.MongoDB))
		logger.Infof("content stored in MongoDB %s.content", cfg.MongoDB.Database)
	default:
		if cfg.Content.Store == "mongo" {
			logger.Warnf("CONTENT_STORE=mongo but MongoDB is unavailable, falling back to %s", cfg.Content.Path)
		}
		contentStore = store.NewFileStore(cfg.Content.Path)
		logger.Infof("content stored in %s", cfg.Content.Path)
	}

	hub := broadcast.NewHub()
	defer hub.Close()
	contentSvc := service.New(contentStore, sessionSvc, hub, service.WithStrictConcurrency(cfg.Content.StrictConcurrency))

	var blobs storage.BlobStore = storage.NewDiskStore(cfg.Uploads.AssetsDir)
	presign := false
	if cfg.Uploads.Backend == "minio" {
		m, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("MinIO unavailable, uploads go to %s: %v", cfg.Uploads.AssetsDir, err)
		} else {
			blobs = m
			presign = cfg.MinIO.Presign
			logger.Infof("uploads stored in MinIO bucket %s", cfg.MinIO.Bucket)
		}
	}

	upstream := utility.New(cfg.Upstream.Timeout, utility.WithExchangeRateKey(cfg.Upstream.ExchangeRateAPIKey))

	var loginGuards []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			loginGuards = append(loginGuards, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			loginGuards = append(loginGuards, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	deps := handlers.Deps{
		Sessions:       sessionSvc,
		Content:        contentSvc,
		Hub:            hub,
		Blobs:          blobs,
		UploadMaxBytes: cfg.Uploads.MaxBytes,
		AssetOptions:   []handlers.AssetsOption{handlers.WithPresignedRedirects(presign)},
		Utility:        upstream,
		LoginGuards:    loginGuards,
		Middleware:     []gin.HandlerFunc{gin.Logger(), gin.Recovery()},
	}
	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
		deps.PublicDir = cfg.Server.PublicDir
		deps.AssetOptions = append(deps.AssetOptions, handlers.WithFallbackDir(filepath.Join(cfg.Server.PublicDir, "portal", "assets")))
		for _, app := range []string{"portal", "admin"} {
			if _, err := os.Stat(filepath.Join(cfg.Server.PublicDir, app, "index.html")); err != nil {
				logger.Warnf("%s build not found under %s", app, cfg.Server.PublicDir)
			}
		}
	}
	r := handlers.NewRouter(deps)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the content store can be read
	r.GET("/ready", func(c *gin.Context) {
		checks := map[string]bool{}
		ready := true

		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		_, err := contentStore.Load(rctx)
		checks["content"] = err == nil
		ready = ready && checks["content"]

		if cfg.Redis.Host != "" {
			checks["redis"] = rdb != nil && rdb.Ping(rctx).Err() == nil
		}
		if cfg.MongoDB.URI != "" {
			checks["mongo"] = mongoClient != nil && mongoClient.Ping(rctx, nil) == nil
			if cfg.Content.Store == "mongo" && !checks["mongo"] {
				ready = false
			}
		}

		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": checks, "viewers": hub.ClientCount(), "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// uploads stream large bodies
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("portal server listening on %s", addr)
		if cfg.Server.Production() {
			logger.Infof("portal: /  admin: /admin")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
