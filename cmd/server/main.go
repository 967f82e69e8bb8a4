package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/acs-tournaments/internal/api"
	"github.com/mcoot/acs-tournaments/internal/config"
	"github.com/mcoot/acs-tournaments/internal/factory"
	redisstorage "github.com/mcoot/acs-tournaments/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Level was checked by config validation
	level, _ := cfg.Logging.SlogLevel()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Build factory config
	factoryCfg := factory.Config{
		Logger:         logger,
		StorageType:    cfg.Storage.Type,
		RuntimeMetrics: true,
		MaxTeamCount:   cfg.Tournament.MaxTeamCount,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		factoryCfg.RedisConfig = &redisstorage.Config{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			MaxTxRetries: cfg.Redis.MaxTxRetries,
		}
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := app.Storage.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		GameService:          app.GameService,
		PlayerService:        app.PlayerService,
		TournamentController: app.TournamentController,
		Metrics:              app.Metrics,
		DefaultTeamCount:     cfg.Tournament.DefaultTeamCount,
		MaxTeamCount:         cfg.Tournament.MaxTeamCount,
		CORSOrigins:          cfg.Server.CORSOrigins,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
