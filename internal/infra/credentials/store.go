// Package credentials keeps provider API keys in the database so deployments can rotate them
// without touching the environment.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

const (
	ProviderOpenAI = "openai"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// OpenAIAPIKey returns the stored key, or an empty string when none was saved.
func (s *Store) OpenAIAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderOpenAI)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetOpenAIAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("openai api key is required")
	}
	return s.upsert(ctx, ProviderOpenAI, key, map[string]any{"source": "cli"})
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

// ResolveOpenAIAPIKey prefers the configured key and falls back to the stored one.
func ResolveOpenAIAPIKey(ctx context.Context, configured string, store *Store, logger infra.Logger) string {
	if key := strings.TrimSpace(configured); key != "" {
		return key
	}
	if store == nil {
		return ""
	}
	key, err := store.OpenAIAPIKey(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("credentials: failed to load openai api key from store")
		return ""
	}
	return key
}
