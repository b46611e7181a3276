package videojob

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"videostudio/internal/domain"
)

// Materialize copies the assets of a completed remote job into the mirror store and finalizes
// the record. Calls for the same id are collapsed in-process and run detached from the callers'
// cancellation; each caller still returns early when its own ctx ends. Across processes a
// lease on the row admits one mirroring worker, and the completed write only applies to a row
// that is still processing. A terminal record, or one being mirrored elsewhere, is returned
// unchanged.
func (s *Service) Materialize(ctx context.Context, id string, jobCreatedAt int64) (*domain.VideoRecord, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(id, func() (any, error) {
		return s.materialize(detached, id, jobCreatedAt)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug().Str("video_id", id).Msg("joined in-flight materialization")
		}
		return res.Val.(*domain.VideoRecord), nil
	}
}

func (s *Service) materialize(ctx context.Context, id string, jobCreatedAt int64) (*domain.VideoRecord, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load video %s: %w", id, err)
	}
	if existing.Status.Terminal() {
		return existing, nil
	}
	log := s.logger.With().Str("video_id", id).Logger()
	if s.mirror == nil {
		s.releaseMirror(ctx, id, domain.ErrStorageNotReady)
		return nil, domain.ErrStorageNotReady
	}
	remote, err := s.remoteClient()
	if err != nil {
		return nil, err
	}

	claimed, err := s.repo.ClaimMirror(ctx, id, s.mirrorLease)
	if err != nil {
		return nil, fmt.Errorf("claim video %s for mirroring: %w", id, err)
	}
	if !claimed {
		log.Debug().Msg("video assets are being mirrored elsewhere")
		return existing, nil
	}

	urls, err := s.mirrorAssets(ctx, remote, id)
	if err != nil {
		s.metrics.add(ctx, s.metrics.materializations, attribute.String("outcome", "failed"))
		s.releaseMirror(ctx, id, err)
		return nil, err
	}

	now := s.now().UTC()
	started := existing.JobCreatedAt
	if jobCreatedAt > 0 {
		started = time.Unix(jobCreatedAt, 0)
	}
	durationMs := now.Sub(started).Milliseconds()
	if started.IsZero() || durationMs < 0 {
		durationMs = 0
	}

	won, err := s.repo.MarkCompleted(ctx, domain.CompletedVideo{
		ID:             id,
		VideoURL:       urls[domain.VariantVideo],
		ThumbnailURL:   optionalURL(urls, domain.VariantThumbnail),
		SpritesheetURL: optionalURL(urls, domain.VariantSpritesheet),
		DurationMs:     durationMs,
		StorageMode:    s.mirror.Mode(),
		CompletedAt:    now,
	})
	if err != nil {
		s.releaseMirror(ctx, id, err)
		return nil, fmt.Errorf("mark video %s completed: %w", id, err)
	}
	if !won {
		log.Info().Msg("video already finalized elsewhere")
	}
	s.metrics.add(ctx, s.metrics.materializations, attribute.String("outcome", "completed"))
	log.Info().Int64("duration_ms", durationMs).Int("assets", len(urls)).Msg("video assets mirrored")

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload video %s: %w", id, err)
	}
	return rec, nil
}

// mirrorAssets fetches the required video first so a failed job uploads nothing.
func (s *Service) mirrorAssets(ctx context.Context, remote Remote, id string) (map[domain.Variant]string, error) {
	urls := make(map[domain.Variant]string, len(domain.Variants))
	for _, variant := range domain.Variants {
		url, err := s.mirrorVariant(ctx, remote, id, variant)
		if err != nil {
			if variant.Optional() {
				s.logger.Warn().Err(err).Str("video_id", id).Str("variant", string(variant)).Msg("optional asset unavailable")
				continue
			}
			return nil, fmt.Errorf("mirror %s of video %s: %w", variant, id, err)
		}
		urls[variant] = url
	}
	return urls, nil
}

// releaseMirror records a failed attempt so the row drops behind other pending jobs.
func (s *Service) releaseMirror(ctx context.Context, id string, cause error) {
	if err := s.repo.ReleaseMirror(ctx, id, cause.Error()); err != nil {
		s.logger.Error().Err(err).Str("video_id", id).Msg("failed to release video mirror claim")
	}
}

func (s *Service) mirrorVariant(ctx context.Context, remote Remote, id string, variant domain.Variant) (string, error) {
	data, err := remote.DownloadContent(ctx, id, variant)
	if err != nil {
		s.metrics.add(ctx, s.metrics.assetUploads, attribute.String("variant", string(variant)), attribute.String("outcome", "download_failed"))
		return "", err
	}
	url, err := s.mirror.Put(ctx, id, variant, data)
	if err != nil {
		s.metrics.add(ctx, s.metrics.assetUploads, attribute.String("variant", string(variant)), attribute.String("outcome", "upload_failed"))
		return "", err
	}
	s.metrics.add(ctx, s.metrics.assetUploads, attribute.String("variant", string(variant)), attribute.String("outcome", "ok"))
	return url, nil
}

func optionalURL(urls map[domain.Variant]string, v domain.Variant) *string {
	u, ok := urls[v]
	if !ok {
		return nil
	}
	return &u
}
