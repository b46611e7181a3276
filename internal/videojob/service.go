// Package videojob keeps local video records consistent with remote generation jobs.
//
// The Service reconciles remote status into the record store, mirrors finished assets into
// durable storage exactly once per job and coordinates best-effort deletion.
package videojob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	videoprovider "videostudio/internal/providers/video"
)

// Remote is the video generation API.
type Remote interface {
	Retrieve(ctx context.Context, id string) (*videoprovider.Job, error)
	DownloadContent(ctx context.Context, id string, variant domain.Variant) ([]byte, error)
	Delete(ctx context.Context, id string) (*videoprovider.DeleteResult, error)
	Create(ctx context.Context, req videoprovider.CreateRequest) (*videoprovider.Job, error)
	Remix(ctx context.Context, id, prompt string) (*videoprovider.Job, error)
}

// AssetStore holds mirrored asset variants.
type AssetStore interface {
	Mode() domain.StorageMode
	Put(ctx context.Context, jobID string, variant domain.Variant, data []byte) (string, error)
	// Remove deletes a variant; an absent variant is not an error.
	Remove(ctx context.Context, jobID string, variant domain.Variant) error
}

// Options wires the Service. Remote may be nil when no API key is configured; calls that need
// it then fail with domain.ErrMissingConfig.
type Options struct {
	Remote Remote
	Repo   domain.VideoRepository
	// Mirror receives materialized assets. Nil disables materialization.
	Mirror AssetStore
	// Cleanup is the store selected by the resolved storage mode. Nil means assets live client-side.
	Cleanup      AssetStore
	StorageMode  domain.StorageMode
	HistoryLimit int
	Logger       *infra.Logger
	Now          func() time.Time
	// MirrorLease bounds how long one process may hold a job's mirroring claim. Defaults to 10m.
	MirrorLease time.Duration
}

const defaultMirrorLease = 10 * time.Minute

type Service struct {
	remote       Remote
	repo         domain.VideoRepository
	mirror       AssetStore
	cleanup      AssetStore
	storageMode  domain.StorageMode
	historyLimit int
	mirrorLease  time.Duration
	logger       infra.Logger
	now          func() time.Time
	inflight     singleflight.Group
	metrics      *metrics
}

func NewService(opts Options) (*Service, error) {
	if opts.Repo == nil {
		return nil, errors.New("videojob: repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = 100
	}
	lease := opts.MirrorLease
	if lease <= 0 {
		lease = defaultMirrorLease
	}
	mode := opts.StorageMode
	if mode == "" {
		mode = domain.StorageModeR2
	}
	return &Service{
		remote:       opts.Remote,
		repo:         opts.Repo,
		mirror:       opts.Mirror,
		cleanup:      opts.Cleanup,
		storageMode:  mode,
		historyLimit: limit,
		mirrorLease:  lease,
		logger:       logger.With().Str("component", "videojob").Logger(),
		now:          now,
		metrics:      newMetrics(),
	}, nil
}

// StorageMode returns the mode resolved at startup.
func (s *Service) StorageMode() domain.StorageMode {
	return s.storageMode
}

// RemoteConfigured reports whether calls to the remote API can be made.
func (s *Service) RemoteConfigured() bool {
	return s.remote != nil
}

func (s *Service) remoteClient() (Remote, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("%w: openai api key", domain.ErrMissingConfig)
	}
	return s.remote, nil
}

// History returns the most recent records, newest first.
func (s *Service) History(ctx context.Context) ([]domain.VideoRecord, error) {
	items, err := s.repo.ListRecent(ctx, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list video history: %w", err)
	}
	return items, nil
}

// ClearHistory removes every local record. Remote jobs and mirrored assets are left alone.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear video history: %w", err)
	}
	s.logger.Info().Msg("video history cleared")
	return nil
}
