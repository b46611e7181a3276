package videojob

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"videostudio/internal/domain"
	videoprovider "videostudio/internal/providers/video"
)

const (
	defaultModel   = "sora-2"
	defaultSize    = "1280x720"
	defaultSeconds = 4
)

// CreateInput describes a new generation job.
type CreateInput struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	Size    string `json:"size"`
	Seconds int    `json:"seconds"`
}

// Create submits a job to the remote API and records it locally with its cost.
func (s *Service) Create(ctx context.Context, in CreateInput) (*VideoView, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidVideoJob)
	}
	if in.Seconds < 0 {
		return nil, fmt.Errorf("%w: seconds must be positive", domain.ErrInvalidVideoJob)
	}
	remote, err := s.remoteClient()
	if err != nil {
		return nil, err
	}
	model := firstNonEmpty(in.Model, defaultModel)
	size := firstNonEmpty(in.Size, defaultSize)
	seconds := in.Seconds
	if seconds == 0 {
		seconds = defaultSeconds
	}

	job, err := remote.Create(ctx, videoprovider.CreateRequest{
		Model:   model,
		Prompt:  prompt,
		Size:    size,
		Seconds: strconv.Itoa(seconds),
	})
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	rec := s.record(ctx, job, domain.VideoModeCreate, prompt, "", CreateInput{Model: model, Size: size, Seconds: seconds})
	return newView(job, displayProgress(domain.NormalizeRemoteStatus(job.Status), job.Progress), rec), nil
}

// Remix submits a job derived from sourceID and records it locally.
func (s *Service) Remix(ctx context.Context, sourceID, prompt string) (*VideoView, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidVideoJob)
	}
	remote, err := s.remoteClient()
	if err != nil {
		return nil, err
	}
	job, err := remote.Remix(ctx, sourceID, prompt)
	if err != nil {
		return nil, fmt.Errorf("remix video %s: %w", sourceID, err)
	}
	var fallback CreateInput
	if src, err := s.repo.GetByID(ctx, sourceID); err == nil {
		fallback = CreateInput{Model: src.Model, Size: src.Size, Seconds: src.Seconds}
	}
	rec := s.record(ctx, job, domain.VideoModeRemix, prompt, sourceID, fallback)
	return newView(job, displayProgress(domain.NormalizeRemoteStatus(job.Status), job.Progress), rec), nil
}

// record upserts the freshly submitted job. Failures are logged; the remote job exists regardless.
func (s *Service) record(ctx context.Context, job *videoprovider.Job, mode domain.VideoMode, prompt, remixOf string, fallback CreateInput) *domain.VideoRecord {
	model := firstNonEmpty(job.Model, fallback.Model)
	size := firstNonEmpty(job.Size, fallback.Size)
	seconds := job.Seconds.Int()
	if seconds == 0 {
		seconds = fallback.Seconds
	}
	createdAt := s.now().UTC()
	if job.CreatedAt > 0 {
		createdAt = time.Unix(job.CreatedAt, 0).UTC()
	}
	log := s.logger.With().Str("video_id", job.ID).Str("mode", string(mode)).Logger()

	err := s.repo.Upsert(ctx, domain.NewVideoRecord{
		ID:           job.ID,
		Mode:         mode,
		Prompt:       prompt,
		Model:        model,
		Size:         size,
		Seconds:      seconds,
		Progress:     displayProgress(domain.VideoStatusProcessing, job.Progress),
		RemixOf:      remixOf,
		JobCreatedAt: createdAt,
		StorageMode:  s.recordStorageMode(),
	}, domain.CalculateVideoCost(model, size, seconds))
	if err != nil {
		log.Error().Err(err).Msg("failed to record video job")
		return nil
	}
	log.Info().Str("model", model).Str("size", size).Int("seconds", seconds).Msg("video job submitted")

	rec, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load video record")
		return nil
	}
	return rec
}

func (s *Service) recordStorageMode() domain.StorageMode {
	if s.mirror != nil {
		return s.mirror.Mode()
	}
	return s.storageMode
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
