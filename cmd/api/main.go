package main

import (
	"fmt"

	"blazely/configs"
	v1 "blazely/internal/api/v1"
	"blazely/internal/config"
	"blazely/internal/middleware"
	"blazely/internal/oauth"
	"blazely/internal/repository"
	"blazely/pkg/database"
	"blazely/pkg/logger"

	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()
	config.SecretKey = []byte(cfg.JWTSecret)
	config.AccessTokenTTL = cfg.AccessTokenTTL
	config.RefreshTokenTTL = cfg.RefreshTokenTTL
	config.UploadDir = cfg.UploadDir

	// Inisialisasi database
	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()

	logger.SystemLogger.Info("Database Connected")

	// ----- Inisialisasi repository ----- //
	// Buat tabel jika belum ada:
	repository.CreateTableIfNotExists(config.DB)
	// Jika ingin membuat superuser:
	// repository.CreateSuperuser(config.DB, "admin", "admin@example.com", "admin123")
	// Jika ingin menghapus tabel:
	// repository.DeleteAllTable(config.DB)

	// Inisialisasi Redis untuk blacklist refresh token
	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	// Inisialisasi OAuth Google
	oauth.Init(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, cfg.OAuthTimeout)

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

	// Static serving untuk foto profil
	app.Static("/uploads", cfg.UploadDir)

	// Daftarkan route API v1
	v1.RegisterRoutes(app)

	logger.SystemLogger.Info("Application ready", zap.Int("port", cfg.Port))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
