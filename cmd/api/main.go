// Package main is the entry point for the Goal Tracker API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/goal-tracker/backend/config"
	"github.com/goal-tracker/backend/internal/infra/cache"
	"github.com/goal-tracker/backend/internal/infra/db"
	"github.com/goal-tracker/backend/internal/infra/dependency"
	"github.com/goal-tracker/backend/internal/infra/logger"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize structured logger
	logger.Init(cfg.IsDevelopment(), cfg.Log.Level, cfg.Log.SentryDSN)
	defer logger.Flush()

	slog.Info("Starting Goal Tracker API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		logger.Flush()
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	// Initialize database connection
	database, err := db.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.Migrate(); err != nil {
		return err
	}
	slog.Info("Database migrations completed successfully")

	// Redis is optional; token revocation and the shared login limiter need it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.Redis.URL)
		if err != nil {
			slog.Warn("Redis connection failed, running without token revocation",
				"error", err,
			)
			redisClient = nil
		} else {
			defer redisClient.Close()
			slog.Info("Redis connection established")
		}
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, dependency.Options{
		DBHealthChecker: database.HealthCheck,
	})
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start email worker
	if cfg.Email.WorkerEnabled {
		go func() {
			if err := injector.EmailWorker.Run(ctx); err != nil {
				slog.Error("Email worker stopped with error", "error", err)
			}
		}()
	}

	// Setup router
	engine := injector.Router.Setup(cfg.Server.Environment, cfg.CORS.AllowOrigin)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
