package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mcoot/pointsrummy/internal/api"
	"github.com/mcoot/pointsrummy/internal/config"
	"github.com/mcoot/pointsrummy/internal/factory"
	"github.com/mcoot/pointsrummy/internal/services/auth"
	"github.com/mcoot/pointsrummy/internal/services/round"
	redisstorage "github.com/mcoot/pointsrummy/internal/storage/redis"
	"github.com/mcoot/pointsrummy/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	authCfg := auth.DefaultConfig()
	authCfg.Secret = cfg.JWTSecret
	authCfg.SessionDuration = cfg.SessionTTL
	if cfg.JWTSecret == "" {
		logger.Warn("RUMMY_JWT_SECRET not set, sessions will not survive a restart")
	}

	factoryCfg := factory.Config{
		AuthConfig:  authCfg,
		RoundConfig: round.DefaultConfig(),
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.MaxLedgerEntries = cfg.RedisMaxLedger
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SeedDemoAccounts {
		if _, err := app.SeedService.SeedIfEmpty(ctx); err != nil {
			logger.Error("failed to seed demo accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Turn timer and session sweeper
	go app.RoundController.Run(ctx)
	go sweepSessions(ctx, app.AuthService, cfg.SessionSweep)

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		AuthService:      app.AuthService,
		LedgerService:    app.LedgerService,
		DashboardService: app.DashboardService,
		RoundController:  app.RoundController,
		HubManager:       app.HubManager,
		ShowDemoAccounts: cfg.SeedDemoAccounts,
		StaticDir:        findStaticDir(cfg.StaticDir),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
			return
		}
	case <-ctx.Done():
		// Open event streams never go idle on their own
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

// sweepSessions drops expired sessions until the context is cancelled
func sweepSessions(ctx context.Context, authService *auth.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.CleanExpiredSessions()
		}
	}
}

// findStaticDir looks for the static files directory.
// An empty result disables static file serving.
func findStaticDir(configured string) string {
	if configured != "" {
		return configured
	}

	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return ""
}
