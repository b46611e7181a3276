package domain

import (
	"context"
	"time"
)

// VideoRepository persists video job records keyed by remote job id.
type VideoRepository interface {
	// Upsert inserts the record on creation or refreshes its generation parameters.
	Upsert(ctx context.Context, rec NewVideoRecord, cost *CostDetails) error
	// UpdateStatus records progress for a non-terminal job. Terminal rows are left untouched.
	UpdateStatus(ctx context.Context, id string, status VideoStatus, progress int, errMsg *string) error
	// MarkCompleted performs the terminal completed write. It reports false when the row was
	// already finalized by someone else.
	MarkCompleted(ctx context.Context, in CompletedVideo) (bool, error)
	// ClaimMirror takes the asset-mirroring lease on a processing row. It reports false while
	// another worker holds an unexpired lease or the row is no longer processing.
	ClaimMirror(ctx context.Context, id string, lease time.Duration) (bool, error)
	// ReleaseMirror drops the lease after a failed mirror attempt, recording the reason and
	// moving the row to the back of the pending queue.
	ReleaseMirror(ctx context.Context, id string, reason string) error
	MarkFailed(ctx context.Context, id string, errMsg *string) error
	GetByID(ctx context.Context, id string) (*VideoRecord, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	ListRecent(ctx context.Context, limit int) ([]VideoRecord, error)
	ListByStatus(ctx context.Context, status VideoStatus, limit int) ([]VideoRecord, error)
}
