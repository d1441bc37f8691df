// Package main is the entry point for the artifact-service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/ai"
	"github.com/artifactlab/artifact-service/internal/catalog"
	"github.com/artifactlab/artifact-service/internal/config"
	"github.com/artifactlab/artifact-service/internal/server"
	"github.com/artifactlab/artifact-service/internal/service"
	"github.com/artifactlab/artifact-service/internal/storage"
)

func main() {
	// run() is separate so deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("ARTIFACT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; not a real problem.
	defer func() { _ = logger.Sync() }()

	// Audit log storage
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	callRepo := storage.NewAnalysisCallRepository(db)

	// Provider client + model catalog. The catalog is resolved once here at
	// startup, not per request. A missing credential disables analysis but
	// never prevents the server from starting.
	ctx := context.Background()
	var analyzer *service.Analyzer
	if cfg.Gemini.Configured() {
		client, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return fmt.Errorf("creating provider client: %w", err)
		}
		cat := catalog.Resolve(ctx, client, cfg.Catalog.Preferred, logger)
		analyzer = service.NewAnalyzer(client, cat, callRepo, logger)
	} else {
		logger.Warn("gemini.api_key not configured, analysis endpoints disabled")
	}

	srv := server.New(cfg, server.Deps{Analyzer: analyzer, CallRepo: callRepo}, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
