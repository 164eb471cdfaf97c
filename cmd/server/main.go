package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lixing-Zhang/product-panel/internal/config"
	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
	"github.com/Lixing-Zhang/product-panel/internal/server"
	"github.com/Lixing-Zhang/product-panel/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.ServerConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting product service",
		zap.String("address", cfg.Addr()),
		zap.String("store", storeName(cfg)),
		zap.String("log_level", cfg.LogLevel),
	)

	var seed []models.ProductInput
	if cfg.Seed {
		seed = repository.SeedProducts()
	}

	var repo repository.ProductRepository
	if cfg.StorePath != "" {
		sqliteRepo, err := repository.NewSQLiteProductRepository(ctx, cfg.StorePath, seed)
		if err != nil {
			return fmt.Errorf("open product store: %w", err)
		}
		defer func() { _ = sqliteRepo.Close() }()
		repo = sqliteRepo
	} else {
		repo = repository.NewInMemoryProductRepository(seed)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: server.NewRouter(repo, log, server.Options{
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}

func storeName(cfg *config.ServerConfig) string {
	if cfg.StorePath == "" {
		return "memory"
	}
	return cfg.StorePath
}
