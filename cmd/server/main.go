package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/delivery-eta/internal/config"
	"github.com/ZanzyTHEbar/delivery-eta/internal/database"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/monitoring"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/ratelimit"
	"github.com/ZanzyTHEbar/delivery-eta/internal/resilience"
)

const version = "1.0.0"

// @title Delivery ETA API
// @version 1.0
// @description Delivery time prediction, distance sensitivity and dataset analytics.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger.Logger)
	gin.SetMode(cfg.GinMode)

	appMetrics := monitoring.NewMetrics()
	ctx := context.Background()

	var db *database.DB
	err = resilience.Retry(ctx, func() error {
		var openErr error
		db, openErr = database.NewDB(ctx, cfg.DataDir, cfg.DatabaseURL)
		return openErr
	})
	if err != nil {
		slog.Error("Failed to open dataset store", "error", err)
		os.Exit(1)
	}
	defer apperrors.SafeClose(db, "database")

	datasets := database.NewDatasetService(database.NewRepository(db))
	start := time.Now()
	batch, err := datasets.SeedIfEmpty(ctx, cfg.DatasetPath)
	switch {
	case err != nil:
		slog.Warn("Dataset seed failed, analytics start empty", "path", cfg.DatasetPath, "error", err)
	case batch != nil:
		appMetrics.IncrementDatasetImport()
		logger.DatasetLogger(batch.Source, batch.RowsRead, batch.RowsSkipped, batch.RowsImported, time.Since(start))
	}

	// a missing model keeps the server up: analytics still work and the
	// prediction routes answer 503
	engine, modelErr := model.LoadEngine(cfg.ModelPath)
	if modelErr != nil {
		slog.Error("Prediction model unavailable", "path", cfg.ModelPath, "error", modelErr)
	} else {
		info := engine.Info()
		logger.SystemLogger("model_loaded", info.Name+" "+info.Version)
	}

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")

	srvState, err := newServer(serverDeps{
		cfg:      cfg,
		logger:   logger,
		metrics:  appMetrics,
		engine:   engine,
		modelErr: modelErr,
		rng:      prediction.NewRandomSource(cfg.RandomSeed),
		datasets: datasets,
		db:       db,
		redis:    redisClient,
	})
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	defer srvState.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srvState.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.Addr(), "model_loaded", engine != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
