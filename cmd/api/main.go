package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/Sshrut/Smart-Task-Scheduler/configs"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/api"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/config"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/middleware"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/repository"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/database"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	config.SecretKey = []byte(cfg.SecretKey)

	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()
	logger.SystemLogger.Info("Database Connected")

	// Create tables if they don't exist yet
	repository.CreateTableIfNotExists(config.DB)

	config.Users = repository.NewPostgresUserStore(config.DB)
	config.Tasks = repository.NewPostgresTaskStore(config.DB)

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	api.RegisterRoutes(app)

	logger.SystemLogger.Info("Application ready", zap.Int("port", cfg.AppPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.AppPort)); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
