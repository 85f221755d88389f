// Package main runs the coaching platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coachdesk/backend/config"
	"github.com/coachdesk/backend/internal/auth"
	"github.com/coachdesk/backend/internal/batches"
	"github.com/coachdesk/backend/internal/cache"
	"github.com/coachdesk/backend/internal/enrollments"
	"github.com/coachdesk/backend/internal/institutes"
	"github.com/coachdesk/backend/internal/media"
	"github.com/coachdesk/backend/internal/middleware"
	"github.com/coachdesk/backend/pkg/database"
	"github.com/coachdesk/backend/pkg/redis"
	"github.com/coachdesk/backend/pkg/response"
	"github.com/coachdesk/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" && cfg.AWS.MediaBucket != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	configCache := cache.NewRedisCache(rdb.Client)

	// Institutes
	instituteRepo := institutes.NewRepository(pool)
	instituteHandler := institutes.NewHandler(instituteRepo, configCache, jwtService, logger)

	// Batches
	batchRepo := batches.NewRepository(pool)
	batchHandler := batches.NewHandler(batchRepo, logger)

	// Enrollments
	enrollmentRepo := enrollments.NewRepository(pool)
	enrollmentHandler := enrollments.NewHandler(enrollmentRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	{
		// Super admin
		api.POST("/superadmin/add-institute", instituteHandler.AddInstitute)
		api.GET("/superadmin/all", instituteHandler.ListAll)

		// Teacher / institute admin
		api.POST("/teacher/login", instituteHandler.Login)
		api.GET("/teacher/me", middleware.JWT(jwtService), instituteHandler.Me)

		// Institute config resolution (header and path forms kept for existing clients)
		api.GET("/institute/config", instituteHandler.GetConfig)
		api.GET("/institute/config/:apiKey", instituteHandler.GetConfigByKey)
		api.GET("/institute/login/:apiKey", instituteHandler.GetConfigByKey)

		// Batch administration
		api.POST("/admin/add-batch", batchHandler.AddBatch)
		api.GET("/admin/my-batches/:instId", batchHandler.ListByPath)
		api.GET("/admin/batch/:id", batchHandler.GetByID)
		api.POST("/admin/add-material/:batchId", batchHandler.AddMaterial)
		api.DELETE("/admin/delete-batch/:id", batchHandler.Delete)

		// Student catalog browsing
		api.GET("/batches", batchHandler.ListByHeader)
		api.GET("/batches/:instId", batchHandler.ListByPath)

		// Student auth + enrollment
		api.POST("/auth/login", enrollmentHandler.Login)
		api.POST("/auth/enroll", enrollmentHandler.Enroll)
		api.GET("/auth/my-batches/:phone/:instId", enrollmentHandler.MyBatches)

		// Media uploads (logos/banners), only when S3 is configured
		if s3Client != nil {
			mediaHandler := media.NewHandler(s3Client, logger)
			api.POST("/admin/upload-url", middleware.JWT(jwtService), mediaHandler.GenerateUploadURL)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
