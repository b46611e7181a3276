package videojob

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"videostudio/internal/domain"
	videoprovider "videostudio/internal/providers/video"
)

// VideoView merges the freshest remote job state with the local record.
type VideoView struct {
	ID              string                  `json:"id"`
	Status          string                  `json:"status"`
	Progress        int                     `json:"progress"`
	Model           string                  `json:"model"`
	Size            string                  `json:"size"`
	Seconds         string                  `json:"seconds"`
	CreatedAt       int64                   `json:"created_at"`
	Object          string                  `json:"object"`
	Error           *videoprovider.JobError `json:"error"`
	VideoURL        *string                 `json:"videoUrl,omitempty"`
	ThumbnailURL    *string                 `json:"thumbnailUrl,omitempty"`
	SpritesheetURL  *string                 `json:"spritesheetUrl,omitempty"`
	StorageModeUsed domain.StorageMode      `json:"storageModeUsed"`
	CostDetails     *domain.CostDetails     `json:"costDetails"`
	CompletedAt     *time.Time              `json:"completedAt,omitempty"`
	DurationMs      *int64                  `json:"durationMs"`
}

// Reconcile fetches the remote job, folds its status into the local record and, on the first
// completed observation, mirrors the assets. Only remote failures are returned; local
// bookkeeping failures are logged and the remote view is still served.
func (s *Service) Reconcile(ctx context.Context, id string) (*VideoView, error) {
	remote, err := s.remoteClient()
	if err != nil {
		return nil, err
	}
	job, err := remote.Retrieve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieve video %s: %w", id, err)
	}

	status := domain.NormalizeRemoteStatus(job.Status)
	progress := displayProgress(status, job.Progress)
	s.metrics.add(ctx, s.metrics.reconciliations, attribute.String("status", string(status)))

	rec := s.persist(ctx, job, status, progress)
	return newView(job, progress, rec), nil
}

func (s *Service) persist(ctx context.Context, job *videoprovider.Job, status domain.VideoStatus, progress int) *domain.VideoRecord {
	log := s.logger.With().Str("video_id", job.ID).Str("status", string(status)).Logger()

	switch status {
	case domain.VideoStatusFailed:
		var msg *string
		if job.Error != nil && job.Error.Message != "" {
			msg = &job.Error.Message
		}
		if err := s.repo.MarkFailed(ctx, job.ID, msg); err != nil {
			log.Error().Err(err).Msg("failed to mark video failed")
		}
	case domain.VideoStatusCompleted:
		// The completed status is written together with the asset urls.
		rec, err := s.Materialize(ctx, job.ID, job.CreatedAt)
		if err == nil {
			return rec
		}
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Msg("completed video has no local record, skipping asset mirror")
		} else {
			log.Error().Err(err).Msg("failed to materialize video assets")
		}
	default:
		if err := s.repo.UpdateStatus(ctx, job.ID, status, progress, nil); err != nil {
			log.Error().Err(err).Int("progress", progress).Msg("failed to update video status")
		}
	}

	rec, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error().Err(err).Msg("failed to load video record")
		}
		return nil
	}
	return rec
}

// displayProgress is 100 once completed, otherwise the finite remote progress, otherwise 0.
func displayProgress(status domain.VideoStatus, remote *float64) int {
	if status == domain.VideoStatusCompleted {
		return 100
	}
	if remote == nil || math.IsNaN(*remote) || math.IsInf(*remote, 0) {
		return 0
	}
	p := int(*remote)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func newView(job *videoprovider.Job, progress int, rec *domain.VideoRecord) *VideoView {
	view := &VideoView{
		ID:              job.ID,
		Status:          job.Status,
		Progress:        progress,
		Model:           job.Model,
		Size:            job.Size,
		Seconds:         string(job.Seconds),
		CreatedAt:       job.CreatedAt,
		Object:          job.Object,
		Error:           job.Error,
		StorageModeUsed: domain.StorageModeR2,
	}
	if rec == nil {
		return view
	}
	view.VideoURL = rec.VideoURL
	view.ThumbnailURL = rec.ThumbnailURL
	view.SpritesheetURL = rec.SpritesheetURL
	if rec.StorageMode != "" {
		view.StorageModeUsed = rec.StorageMode
	}
	view.CostDetails = rec.CostDetails
	view.CompletedAt = rec.CompletedAt
	view.DurationMs = rec.DurationMs
	return view
}
