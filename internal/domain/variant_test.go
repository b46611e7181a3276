package domain

import "testing"

func TestVariantKeys(t *testing.T) {
	cases := []struct {
		variant     Variant
		objectKey   string
		filename    string
		contentType string
		optional    bool
	}{
		{VariantVideo, "videos/v1/video.mp4", "v1_video.mp4", "video/mp4", false},
		{VariantThumbnail, "videos/v1/thumbnail.webp", "v1_thumbnail.webp", "image/webp", true},
		{VariantSpritesheet, "videos/v1/spritesheet.jpg", "v1_spritesheet.jpg", "image/jpeg", true},
	}
	for _, tc := range cases {
		if got := tc.variant.ObjectKey("v1"); got != tc.objectKey {
			t.Fatalf("%s ObjectKey = %q, want %q", tc.variant, got, tc.objectKey)
		}
		if got := tc.variant.LocalFilename("v1"); got != tc.filename {
			t.Fatalf("%s LocalFilename = %q, want %q", tc.variant, got, tc.filename)
		}
		if got := tc.variant.ContentType(); got != tc.contentType {
			t.Fatalf("%s ContentType = %q, want %q", tc.variant, got, tc.contentType)
		}
		if got := tc.variant.Optional(); got != tc.optional {
			t.Fatalf("%s Optional = %v, want %v", tc.variant, got, tc.optional)
		}
	}
	if Variants[0] != VariantVideo {
		t.Fatalf("first variant = %q, want video", Variants[0])
	}
}

func TestNormalizeRemoteStatus(t *testing.T) {
	cases := map[string]VideoStatus{
		"queued":      VideoStatusProcessing,
		"in_progress": VideoStatusProcessing,
		"completed":   VideoStatusCompleted,
		"failed":      VideoStatusFailed,
		"":            VideoStatusProcessing,
	}
	for in, want := range cases {
		if got := NormalizeRemoteStatus(in); got != want {
			t.Fatalf("NormalizeRemoteStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
