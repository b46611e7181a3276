package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"videostudio/internal/app"
	"videostudio/internal/domain"
	"videostudio/internal/http/handlers"
	httpapi "videostudio/internal/http/httpapi"
	"videostudio/internal/infra"
	"videostudio/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := infra.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init metrics")
	}

	stores, err := app.NewStores(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}
	runner := infra.NewSQLRunner(pool, logger)
	videos, err := app.NewVideoService(ctx, cfg, runner, stores, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure video service")
	}

	routerOpts := httpapi.Options{
		Logger:             logger,
		Password:           cfg.AppPassword,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		Metrics:            metricsHandler,
	}
	if cfg.StorageMode == domain.StorageModeFS && stores.File != nil {
		routerOpts.FilesDir = stores.File.BasePath()
	}
	router := httpapi.NewRouter(handlers.NewApp(videos, pool, logger), routerOpts)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("storage_mode", string(cfg.StorageMode)).
			Bool("auth", cfg.AppPassword != "").
			Msg("api listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown metrics")
	}
	logger.Info().Msg("server stopped")
}
