package videojob

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"videostudio/internal/domain"
	videoprovider "videostudio/internal/providers/video"
)

const pendingConcurrency = 4

// ReconcilePending reconciles up to limit records that are still processing and returns how
// many were reconciled. Jobs the remote API no longer knows are marked failed.
func (s *Service) ReconcilePending(ctx context.Context, limit int) (int, error) {
	if _, err := s.remoteClient(); err != nil {
		return 0, err
	}
	items, err := s.repo.ListByStatus(ctx, domain.VideoStatusProcessing, limit)
	if err != nil {
		return 0, fmt.Errorf("list processing videos: %w", err)
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pendingConcurrency)
	for _, item := range items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if _, err := s.Reconcile(gctx, item.ID); err != nil {
				if videoprovider.IsNotFound(err) {
					msg := "remote job not found"
					if err := s.repo.MarkFailed(gctx, item.ID, &msg); err != nil {
						s.logger.Error().Err(err).Str("video_id", item.ID).Msg("failed to mark missing video failed")
					}
					return nil
				}
				s.logger.Warn().Err(err).Str("video_id", item.ID).Msg("background reconcile failed")
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(done.Load()), err
	}
	return int(done.Load()), nil
}
