package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-volunteer/internal/config"
	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/handler"
	"campus-volunteer/internal/middleware"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/repository/memory"
	"campus-volunteer/internal/service"
	"campus-volunteer/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	var repos *repository.Repositories
	switch cfg.StoreDriver {
	case "memory":
		zlog.Warn("using in-memory store, data is lost on restart")
		repos = memory.NewRepositories(memory.Open())
	default:
		db, err := config.NewPostgresDB(cfg)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = repository.NewRepositories(db)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = config.NewRedisClient(cfg)
		if err != nil {
			zlog.Warn("failed to connect to redis, cache and live channel disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var minioClient *minio.Client
	if cfg.MinIOEndpoint != "" {
		minioClient, err = config.NewMinIOClient(cfg, zlog)
		if err != nil {
			zlog.Warn("failed to connect to minio, image upload disabled", zap.Error(err))
			minioClient = nil
		}
	}

	services, err := service.NewServices(repos, redisClient, minioClient, cfg, domain.SystemClock{}, zlog)
	if err != nil {
		zlog.Fatal("failed to build services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services, zlog)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		_, created, err := auth.EnsureUser(context.Background(), repos.User, cfg.AdminEmail, cfg.AdminPassword, "Administrator", domain.RoleAdmin)
		if err != nil {
			zlog.Fatal("failed to bootstrap admin", zap.Error(err))
		}
		if created {
			zlog.Info("bootstrap admin created", zap.String("email", cfg.AdminEmail))
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	handler.SetupRoutes(app, handlers, services.Auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go services.Reminder.Run(ctx)

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Warn("server shutdown", zap.Error(err))
	}
	services.Notification.Wait()
}
