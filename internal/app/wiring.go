// Package app assembles the video workflow from configuration. Both the API server and the
// background worker build their Service here.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"videostudio/internal/adapter/repo"
	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/infra/credentials"
	videoprovider "videostudio/internal/providers/video"
	"videostudio/internal/storage"
	"videostudio/internal/videojob"
)

// Stores holds the asset stores selected from configuration.
type Stores struct {
	Object *storage.ObjectStore
	File   *storage.FileStore
}

// NewStores builds the object store when R2 is configured and the file store when the fs mode
// is in effect.
func NewStores(cfg *infra.Config) (Stores, error) {
	var out Stores
	if cfg.R2.Configured() {
		obj, err := storage.NewObjectStore(storage.ObjectOptions{
			Endpoint:        cfg.R2.Endpoint(),
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			Bucket:          cfg.R2.Bucket,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return out, fmt.Errorf("configure object storage: %w", err)
		}
		out.Object = obj
	}
	if cfg.StorageMode == domain.StorageModeFS {
		fs, err := storage.NewFileStore(cfg.OutputDir, cfg.StorageBaseURL)
		if err != nil {
			return out, fmt.Errorf("configure file storage: %w", err)
		}
		out.File = fs
	}
	return out, nil
}

// Mirror returns where finished assets are copied: the bucket when available, else local files.
func (s Stores) Mirror() videojob.AssetStore {
	if s.Object != nil {
		return s.Object
	}
	if s.File != nil {
		return s.File
	}
	return nil
}

// Cleanup returns the store deletions target for the resolved mode.
func (s Stores) Cleanup(mode domain.StorageMode) videojob.AssetStore {
	switch mode {
	case domain.StorageModeR2:
		if s.Object != nil {
			return s.Object
		}
	case domain.StorageModeFS:
		if s.File != nil {
			return s.File
		}
	}
	return nil
}

// NewVideoService wires the repository, remote client and stores into a videojob.Service.
// A missing API key is tolerated; remote calls then fail with a configuration error.
func NewVideoService(ctx context.Context, cfg *infra.Config, sql infra.SQLExecutor, stores Stores, logger infra.Logger) (*videojob.Service, error) {
	apiKey := credentials.ResolveOpenAIAPIKey(ctx, cfg.OpenAIAPIKey, credentials.NewStore(sql), logger)

	var remote videojob.Remote
	if apiKey != "" {
		client, err := videoprovider.NewOpenAIClient(videoprovider.Options{
			APIKey:       apiKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   &http.Client{Timeout: 2 * time.Minute},
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai client: %w", err)
		}
		remote = client
	} else {
		logger.Warn().Msg("openai api key missing, video endpoints will report a configuration error")
	}

	mirror := stores.Mirror()
	if mirror == nil {
		logger.Warn().Str("storage_mode", string(cfg.StorageMode)).Msg("no asset store configured, completed videos will not be mirrored")
	}

	return videojob.NewService(videojob.Options{
		Remote:       remote,
		Repo:         repo.NewVideoRepository(sql),
		Mirror:       mirror,
		Cleanup:      stores.Cleanup(cfg.StorageMode),
		StorageMode:  cfg.StorageMode,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       &logger,
	})
}
