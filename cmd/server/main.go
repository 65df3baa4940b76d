package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/GabyPng/Happ/internal/auth"
	"github.com/GabyPng/Happ/internal/config"
	"github.com/GabyPng/Happ/internal/database"
	"github.com/GabyPng/Happ/internal/handlers"
	"github.com/GabyPng/Happ/internal/logging"
	"github.com/GabyPng/Happ/internal/repository"
	"github.com/GabyPng/Happ/internal/services"
	"github.com/GabyPng/Happ/internal/validation"
)

func main() {
	// A missing .env is fine; the environment alone may configure everything
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := validation.RegisterWithGin(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register validators")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	gardenRepo := repository.NewGardenRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)

	authService := services.NewAuthService(
		userRepo,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
	)
	gardenService := services.NewGardenService(gardenRepo, memoryRepo, cfg.AccessCodeMaxAttempts)
	memoryService := services.NewMemoryService(memoryRepo, gardenRepo)
	mediaService := services.NewMediaService(services.MediaConfig{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PresignExpiry: cfg.S3PresignExpiry,
	})
	if !mediaService.Enabled() {
		logging.Warn().Msg("S3_BUCKET is not set, media upload URLs are disabled")
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		DB:                db,
		AuthService:       authService,
		GardenService:     gardenService,
		MemoryService:     memoryService,
		MediaService:      mediaService,
		AuthRatePerMinute: cfg.RateLimitAuthPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logging.Info().Str("port", cfg.Port).Str("mode", cfg.GinMode).Str("db_driver", cfg.DBDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shut down")
		return
	}

	logging.Info().Msg("Server stopped")
}
