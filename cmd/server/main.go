package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/electromart/electromart-backend/config"
	"github.com/electromart/electromart-backend/internal/app"
	"github.com/electromart/electromart-backend/internal/app/service"
	"github.com/electromart/electromart-backend/internal/db"
	"github.com/electromart/electromart-backend/internal/storage"
	"github.com/electromart/electromart-backend/pkg/logger"
	tokenstore "github.com/electromart/electromart-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Server.EffectiveLogLevel()
	format := "json"
	if cfg.Server.Environment == "development" {
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting ElectroMart backend", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"store_driver": cfg.Store.Driver,
	})

	ctx := context.Background()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	// Redis is optional: the cart cache and token blacklist go without it
	var redisClient *redis.Client
	if client, err := tokenstore.Connect(ctx, &cfg.Redis); err != nil {
		logger.Warn("Continuing without Redis", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	var uploader service.ImageUploader
	if cfg.S3.Bucket != "" {
		uploader = storage.NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	}

	server, err := app.NewServer(cfg, stores, redisClient, uploader)
	if err != nil {
		logger.Fatal("Failed to build server", err)
	}

	if cfg.Store.SeedOnBoot {
		inserted, err := server.Products.SeedCatalog(ctx, db.SampleProducts())
		if err != nil {
			logger.Warn("Failed to seed catalog", map[string]interface{}{
				"error": err.Error(),
			})
		} else if inserted > 0 {
			logger.Info("Seeded sample catalog", map[string]interface{}{
				"count": inserted,
			})
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: server.Engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
