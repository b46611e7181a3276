package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"videostudio/internal/domain"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	AutoMigrate        bool
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIOrg          string
	AppPassword        string
	StorageMode        domain.StorageMode
	R2                 R2Config
	OutputDir          string
	StorageBaseURL     string
	CORSAllowedOrigins []string
	HistoryLimit       int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	ReconcileInterval  time.Duration
	ReconcileBatchSize int
}

// R2Config holds the Cloudflare R2 (S3 compatible) bucket settings.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// Configured reports whether every value needed to talk to the bucket is present.
func (c R2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != "" && c.PublicBaseURL != ""
}

// Endpoint returns the account scoped R2 API endpoint.
func (c R2Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	readOnlyFS := getEnv("VERCEL", "") == "1" || getEnvBool("READ_ONLY_FS", false)
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AutoMigrate:   getEnvBool("AUTO_MIGRATE", true),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: getEnv("OPENAI_API_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:     os.Getenv("OPENAI_ORG"),
		AppPassword:   os.Getenv("APP_PASSWORD"),
		StorageMode:   ResolveStorageMode(os.Getenv("FILE_STORAGE_MODE"), readOnlyFS),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		OutputDir:          getEnv("OUTPUT_DIR", "./generated-videos"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/files", port)),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 100),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ReconcileInterval:  time.Second * time.Duration(getEnvInt("RECONCILE_INTERVAL_SECONDS", 10)),
		ReconcileBatchSize: getEnvInt("RECONCILE_BATCH_SIZE", 20),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}

	return cfg, nil
}

// ResolveStorageMode turns the requested mode and deployment constraints into the effective
// storage backend. Read-only deployments cannot keep files locally, so fs falls back to indexeddb.
func ResolveStorageMode(requested string, readOnlyFS bool) domain.StorageMode {
	switch domain.StorageMode(strings.ToLower(strings.TrimSpace(requested))) {
	case domain.StorageModeFS:
		if readOnlyFS {
			return domain.StorageModeIndexedDB
		}
		return domain.StorageModeFS
	case domain.StorageModeR2:
		return domain.StorageModeR2
	case domain.StorageModeIndexedDB:
		return domain.StorageModeIndexedDB
	}
	if readOnlyFS {
		return domain.StorageModeIndexedDB
	}
	return domain.StorageModeR2
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
