package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"videostudio/internal/domain"
	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// VideoRepositoryPG implements domain.VideoRepository on top of the marker-checked SQL runner.
type VideoRepositoryPG struct {
	sql infra.SQLExecutor
}

var _ domain.VideoRepository = (*VideoRepositoryPG)(nil)

// NewVideoRepository creates a repository for the ai_video_history table.
func NewVideoRepository(sql infra.SQLExecutor) *VideoRepositoryPG {
	return &VideoRepositoryPG{sql: sql}
}

// Upsert inserts a freshly submitted job. Cost details are written only on insert.
func (r *VideoRepositoryPG) Upsert(ctx context.Context, rec domain.NewVideoRecord, cost *domain.CostDetails) error {
	if rec.ID == "" {
		return domain.ErrInvalidVideoJob
	}
	mode := rec.Mode
	if mode == "" {
		mode = domain.VideoModeCreate
	}
	storageMode := rec.StorageMode
	if storageMode == "" {
		storageMode = domain.StorageModeR2
	}
	createdAt := rec.JobCreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var costJSON []byte
	if cost != nil {
		raw, err := json.Marshal(cost)
		if err != nil {
			return fmt.Errorf("encode cost details: %w", err)
		}
		costJSON = raw
	}
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertVideo,
		rec.ID,
		string(mode),
		rec.Prompt,
		rec.Model,
		rec.Size,
		rec.Seconds,
		costJSON,
		clampProgress(rec.Progress),
		rec.RemixOf,
		createdAt,
		string(storageMode),
	)
	return err
}

func (r *VideoRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.VideoStatus, progress int, errMsg *string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateVideoStatus, id, string(status), clampProgress(progress), errMsg)
	return err
}

// MarkCompleted finalizes a processing row. It returns false when no processing row matched.
func (r *VideoRepositoryPG) MarkCompleted(ctx context.Context, in domain.CompletedVideo) (bool, error) {
	if in.VideoURL == "" {
		return false, fmt.Errorf("%w: video url is required", domain.ErrInvalidVideoJob)
	}
	storageMode := in.StorageMode
	if storageMode == "" {
		storageMode = domain.StorageModeR2
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QMarkVideoCompleted,
		in.ID,
		in.VideoURL,
		in.ThumbnailURL,
		in.SpritesheetURL,
		in.DurationMs,
		string(storageMode),
		in.CompletedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ClaimMirror sets mirror_claimed_at when the row is processing and unclaimed or its lease expired.
func (r *VideoRepositoryPG) ClaimMirror(ctx context.Context, id string, lease time.Duration) (bool, error) {
	secs := int(lease / time.Second)
	if secs <= 0 {
		secs = 1
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QClaimVideoMirror, id, secs)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VideoRepositoryPG) ReleaseMirror(ctx context.Context, id string, reason string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QReleaseVideoMirror, id, reason)
	return err
}

func (r *VideoRepositoryPG) MarkFailed(ctx context.Context, id string, errMsg *string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkVideoFailed, id, errMsg)
	return err
}

// GetByID returns domain.ErrNotFound when no row exists.
func (r *VideoRepositoryPG) GetByID(ctx context.Context, id string) (*domain.VideoRecord, error) {
	rec, err := scanVideo(r.sql.QueryRow(ctx, sqlinline.QSelectVideoByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *VideoRepositoryPG) DeleteByID(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteVideoByID, id)
	return err
}

func (r *VideoRepositoryPG) DeleteAll(ctx context.Context) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteAllVideos)
	return err
}

// ListRecent returns the newest records first.
func (r *VideoRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.VideoRecord, error) {
	return r.list(ctx, sqlinline.QListRecentVideos, normalizeLimit(limit))
}

// ListByStatus returns the least recently touched records with the given status.
func (r *VideoRepositoryPG) ListByStatus(ctx context.Context, status domain.VideoStatus, limit int) ([]domain.VideoRecord, error) {
	return r.list(ctx, sqlinline.QListVideosByStatus, string(status), normalizeLimit(limit))
}

func (r *VideoRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.VideoRecord, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.VideoRecord, 0)
	for rows.Next() {
		rec, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*domain.VideoRecord, error) {
	var (
		rec         domain.VideoRecord
		mode        string
		status      string
		storageMode string
		costJSON    []byte
	)
	if err := row.Scan(
		&rec.ID,
		&mode,
		&rec.Prompt,
		&rec.Model,
		&rec.Size,
		&rec.Seconds,
		&rec.RemixOf,
		&status,
		&rec.Progress,
		&rec.Error,
		&costJSON,
		&storageMode,
		&rec.VideoURL,
		&rec.ThumbnailURL,
		&rec.SpritesheetURL,
		&rec.DurationMs,
		&rec.CompletedAt,
		&rec.HasAssets,
		&rec.JobCreatedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Mode = domain.VideoMode(mode)
	rec.Status = domain.VideoStatus(status)
	rec.StorageMode = domain.StorageMode(storageMode)
	if rec.StorageMode == "" {
		rec.StorageMode = domain.StorageModeR2
	}
	if len(costJSON) > 0 && string(costJSON) != "null" {
		var cost domain.CostDetails
		if err := json.Unmarshal(costJSON, &cost); err != nil {
			return nil, fmt.Errorf("decode cost details for %s: %w", rec.ID, err)
		}
		rec.CostDetails = &cost
	}
	return &rec, nil
}

func clampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
