package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"clearspend/internal/categories"
	"clearspend/internal/categories/jsondoc"
	"clearspend/internal/categories/sqlitedoc"
	"clearspend/internal/config"
	apphttp "clearspend/internal/http"
	"clearspend/internal/log"
	"clearspend/internal/report"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// Config validation runs before logging is configured.
		basic := log.New(log.DefaultConfig())
		basic.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)

	// Choose the category persistence backend.
	var doc categories.Document
	switch cfg.CategoryBackend {
	case config.BackendSQLite:
		sqlDoc, err := sqlitedoc.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open category database", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqlDoc.Close()
		doc = sqlDoc
	default:
		doc = jsondoc.New(cfg.CategoryFile)
	}
	logger.Info("Initialized category backend", log.FieldBackend, cfg.CategoryBackend)

	store := categories.New(doc)
	store.Load(context.Background())

	srv := apphttp.NewServer(":"+cfg.Port, store, report.NewCharts())

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting clearspend server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
