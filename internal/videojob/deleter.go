package videojob

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"videostudio/internal/domain"
	videoprovider "videostudio/internal/providers/video"
)

// Delete removes the remote job, then best-effort removes mirrored assets and the local record.
// Only the remote deletion can fail the call.
func (s *Service) Delete(ctx context.Context, id string) (*videoprovider.DeleteResult, error) {
	remote, err := s.remoteClient()
	if err != nil {
		return nil, err
	}
	res, err := remote.Delete(ctx, id)
	if err != nil {
		s.metrics.add(ctx, s.metrics.deletions, attribute.String("outcome", "remote_failed"))
		return nil, fmt.Errorf("delete remote video %s: %w", id, err)
	}

	log := s.logger.With().Str("video_id", id).Logger()
	s.removeAssets(ctx, id)
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to delete video record")
	}
	s.metrics.add(ctx, s.metrics.deletions, attribute.String("outcome", "deleted"))
	log.Info().Str("storage_mode", string(s.storageMode)).Msg("video deleted")
	return res, nil
}

func (s *Service) removeAssets(ctx context.Context, id string) {
	if s.cleanup == nil {
		s.logger.Debug().Str("video_id", id).Str("storage_mode", string(s.storageMode)).Msg("no server-side assets to remove")
		return
	}
	var g errgroup.Group
	for _, variant := range domain.Variants {
		g.Go(func() error {
			if err := s.cleanup.Remove(ctx, id, variant); err != nil {
				s.logger.Warn().Err(err).Str("video_id", id).Str("variant", string(variant)).Msg("failed to remove video asset")
			}
			return nil
		})
	}
	_ = g.Wait()
}
