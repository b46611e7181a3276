package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"videostudio/internal/infra"
)

type countingReconciler struct {
	calls atomic.Int32
	limit atomic.Int32
	err   error
}

func (c *countingReconciler) ReconcilePending(ctx context.Context, limit int) (int, error) {
	c.calls.Add(1)
	c.limit.Store(int32(limit))
	return 1, c.err
}

func TestWorkerRunTicksUntilCancelled(t *testing.T) {
	rec := &countingReconciler{}
	w := &pendingWorker{videos: rec, logger: *infra.NopLogger(), interval: 5 * time.Millisecond, batchSize: 7}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	err := w.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}
	if rec.calls.Load() < 2 {
		t.Fatalf("expected several ticks, got %d", rec.calls.Load())
	}
	if rec.limit.Load() != 7 {
		t.Fatalf("batch size = %d", rec.limit.Load())
	}
}

func TestWorkerKeepsRunningAfterBatchError(t *testing.T) {
	rec := &countingReconciler{err: errors.New("db down")}
	w := &pendingWorker{videos: rec, logger: *infra.NopLogger(), interval: 5 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)
	if rec.calls.Load() < 2 {
		t.Fatalf("worker should keep ticking after errors, got %d calls", rec.calls.Load())
	}
}
