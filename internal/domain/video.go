package domain

import "time"

// VideoMode enumerates how a generation job was submitted.
type VideoMode string

const (
	VideoModeCreate VideoMode = "create"
	VideoModeRemix  VideoMode = "remix"
)

// VideoStatus is the local, three-state projection of the remote job status.
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// NormalizeRemoteStatus maps provider statuses (queued, in_progress, completed, failed)
// onto the local status set.
func NormalizeRemoteStatus(remote string) VideoStatus {
	switch remote {
	case "completed":
		return VideoStatusCompleted
	case "failed":
		return VideoStatusFailed
	default:
		return VideoStatusProcessing
	}
}

// StorageMode identifies where mirrored assets live.
type StorageMode string

const (
	StorageModeR2        StorageMode = "r2"
	StorageModeFS        StorageMode = "fs"
	StorageModeIndexedDB StorageMode = "indexeddb"
)

// VideoRecord is the local projection of one remote video job.
type VideoRecord struct {
	ID             string       `json:"id"`
	Mode           VideoMode    `json:"mode"`
	Prompt         string       `json:"prompt"`
	Model          string       `json:"model"`
	Size           string       `json:"size"`
	Seconds        int          `json:"seconds"`
	RemixOf        *string      `json:"remix_of,omitempty"`
	Status         VideoStatus  `json:"status"`
	Progress       int          `json:"progress"`
	Error          *string      `json:"error,omitempty"`
	CostDetails    *CostDetails `json:"costDetails"`
	StorageMode    StorageMode  `json:"storageModeUsed"`
	VideoURL       *string      `json:"videoUrl,omitempty"`
	ThumbnailURL   *string      `json:"thumbnailUrl,omitempty"`
	SpritesheetURL *string      `json:"spritesheetUrl,omitempty"`
	DurationMs     *int64       `json:"durationMs"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
	HasAssets      bool         `json:"hasAssets"`
	JobCreatedAt   time.Time    `json:"jobCreatedAt"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Finalized reports whether assets were already mirrored for the record.
func (r *VideoRecord) Finalized() bool {
	return r != nil && r.Status == VideoStatusCompleted && r.VideoURL != nil && *r.VideoURL != ""
}

// NewVideoRecord carries the immutable parameters captured when a job is submitted.
type NewVideoRecord struct {
	ID           string
	Mode         VideoMode
	Prompt       string
	Model        string
	Size         string
	Seconds      int
	Progress     int
	RemixOf      string
	JobCreatedAt time.Time
	StorageMode  StorageMode
}

// CompletedVideo is the terminal write performed once assets are mirrored.
type CompletedVideo struct {
	ID             string
	VideoURL       string
	ThumbnailURL   *string
	SpritesheetURL *string
	DurationMs     int64
	StorageMode    StorageMode
	CompletedAt    time.Time
}
