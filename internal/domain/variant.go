package domain

import "fmt"

// Variant is one media output of a video job.
type Variant string

const (
	VariantVideo       Variant = "video"
	VariantThumbnail   Variant = "thumbnail"
	VariantSpritesheet Variant = "spritesheet"
)

// Variants lists every variant in mirroring order. The video comes first and is required.
var Variants = []Variant{VariantVideo, VariantThumbnail, VariantSpritesheet}

// Optional reports whether a missing variant can be skipped.
func (v Variant) Optional() bool {
	return v != VariantVideo
}

// Extension returns the file extension used when the variant is stored.
func (v Variant) Extension() string {
	switch v {
	case VariantThumbnail:
		return "webp"
	case VariantSpritesheet:
		return "jpg"
	default:
		return "mp4"
	}
}

// ContentType returns the MIME type the variant is uploaded with.
func (v Variant) ContentType() string {
	switch v {
	case VariantThumbnail:
		return "image/webp"
	case VariantSpritesheet:
		return "image/jpeg"
	default:
		return "video/mp4"
	}
}

// ObjectKey is the object storage key, e.g. videos/{id}/video.mp4.
func (v Variant) ObjectKey(videoID string) string {
	return fmt.Sprintf("videos/%s/%s.%s", videoID, v, v.Extension())
}

// LocalFilename is the file name used by the local filesystem store, e.g. {id}_video.mp4.
func (v Variant) LocalFilename(videoID string) string {
	return fmt.Sprintf("%s_%s.%s", videoID, v, v.Extension())
}
