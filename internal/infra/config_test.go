package infra

import (
	"testing"

	"videostudio/internal/domain"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig expected error without DATABASE_URL")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("FILE_STORAGE_MODE", "")
	t.Setenv("VERCEL", "")
	t.Setenv("READ_ONLY_FS", "")
	t.Setenv("HISTORY_LIMIT", "")
	t.Setenv("OPENAI_API_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:1919/files" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	if cfg.StorageMode != domain.StorageModeR2 {
		t.Fatalf("StorageMode = %q, want r2", cfg.StorageMode)
	}
	if cfg.HistoryLimit != 100 {
		t.Fatalf("HistoryLimit = %d, want 100", cfg.HistoryLimit)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Fatalf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
}

func TestLoadConfigVercelForcesIndexedDB(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("FILE_STORAGE_MODE", "fs")
	t.Setenv("VERCEL", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageMode != domain.StorageModeIndexedDB {
		t.Fatalf("StorageMode = %q, want indexeddb", cfg.StorageMode)
	}
}

func TestLoadConfigParsesCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %#v, want %#v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestResolveStorageMode(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		readOnly  bool
		want      domain.StorageMode
	}{
		{name: "explicit r2", requested: "r2", want: domain.StorageModeR2},
		{name: "explicit fs", requested: "fs", want: domain.StorageModeFS},
		{name: "fs on read-only", requested: "fs", readOnly: true, want: domain.StorageModeIndexedDB},
		{name: "explicit indexeddb", requested: "indexeddb", want: domain.StorageModeIndexedDB},
		{name: "r2 on read-only", requested: "r2", readOnly: true, want: domain.StorageModeR2},
		{name: "unset read-only", requested: "", readOnly: true, want: domain.StorageModeIndexedDB},
		{name: "unset", requested: "", want: domain.StorageModeR2},
		{name: "case insensitive", requested: " FS ", want: domain.StorageModeFS},
		{name: "unknown", requested: "s3", want: domain.StorageModeR2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveStorageMode(tc.requested, tc.readOnly); got != tc.want {
				t.Fatalf("ResolveStorageMode(%q, %v) = %q, want %q", tc.requested, tc.readOnly, got, tc.want)
			}
		})
	}
}
