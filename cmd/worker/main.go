package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"videostudio/internal/app"
	"videostudio/internal/infra"
)

// reconciler is the part of the video service the worker drives.
type reconciler interface {
	ReconcilePending(ctx context.Context, limit int) (int, error)
}

type pendingWorker struct {
	videos    reconciler
	logger    infra.Logger
	interval  time.Duration
	batchSize int
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	stores, err := app.NewStores(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}
	videos, err := app.NewVideoService(ctx, cfg, infra.NewSQLRunner(pool, logger), stores, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure video service")
	}
	if !videos.RemoteConfigured() {
		logger.Fatal().Msg("worker: openai api key is required")
	}

	w := &pendingWorker{
		videos:    videos,
		logger:    logger,
		interval:  cfg.ReconcileInterval,
		batchSize: cfg.ReconcileBatchSize,
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// Run reconciles processing videos every interval until ctx is cancelled.
func (w *pendingWorker) Run(ctx context.Context) error {
	interval := w.interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	w.logger.Info().Dur("interval", interval).Int("batch_size", w.batchSize).Msg("worker: started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		w.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *pendingWorker) tick(ctx context.Context) {
	start := time.Now()
	n, err := w.videos.ReconcilePending(ctx, w.batchSize)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error().Err(err).Msg("worker: reconcile batch failed")
		return
	}
	if n > 0 {
		w.logger.Info().Int("reconciled", n).Dur("elapsed", time.Since(start)).Msg("worker: batch done")
	}
}
