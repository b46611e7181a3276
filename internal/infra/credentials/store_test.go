package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

// tokenTable is an in-memory integration_tokens table keyed by provider.
type tokenTable struct {
	tokens  map[string]string
	err     error
	lastSQL string
	props   []byte
}

func (t *tokenTable) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	t.lastSQL = query
	if t.err != nil {
		return pgconn.CommandTag{}, t.err
	}
	if t.tokens == nil {
		t.tokens = map[string]string{}
	}
	t.tokens[args[0].(string)] = args[1].(string)
	t.props, _ = args[2].([]byte)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *tokenTable) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	t.lastSQL = query
	if t.err != nil {
		return tokenRow{err: t.err}
	}
	token, ok := t.tokens[args[0].(string)]
	if !ok {
		return tokenRow{err: pgx.ErrNoRows}
	}
	return tokenRow{token: token}
}

func (t *tokenTable) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type tokenRow struct {
	token string
	err   error
}

func (r tokenRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.token
	return nil
}

func TestToken(t *testing.T) {
	tests := []struct {
		name    string
		table   *tokenTable
		want    string
		wantErr bool
	}{
		{name: "trims stored token", table: &tokenTable{tokens: map[string]string{ProviderOpenAI: " sk-test "}}, want: "sk-test"},
		{name: "missing row is empty", table: &tokenTable{}, want: ""},
		{name: "database error", table: &tokenTable{err: errors.New("db down")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStore(tt.table).OpenAIAPIKey(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, sqlinline.QSelectIntegrationToken, tt.table.lastSQL)
		})
	}
}

func TestSetOpenAIAPIKeyRoundTrip(t *testing.T) {
	table := &tokenTable{}
	store := NewStore(table)

	require.NoError(t, store.SetOpenAIAPIKey(context.Background(), "  sk-new "))
	assert.Equal(t, sqlinline.QUpsertIntegrationToken, table.lastSQL)

	var props map[string]string
	require.NoError(t, json.Unmarshal(table.props, &props))
	assert.Equal(t, "cli", props["source"])

	key, err := store.OpenAIAPIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-new", key)
}

func TestSetOpenAIAPIKeyRejectsBlank(t *testing.T) {
	table := &tokenTable{}
	require.Error(t, NewStore(table).SetOpenAIAPIKey(context.Background(), " "))
	assert.Empty(t, table.lastSQL)
}

func TestResolveOpenAIAPIKey(t *testing.T) {
	logger := *infra.NopLogger()
	stored := NewStore(&tokenTable{tokens: map[string]string{ProviderOpenAI: "sk-stored"}})
	ctx := context.Background()

	assert.Equal(t, "sk-env", ResolveOpenAIAPIKey(ctx, " sk-env ", stored, logger), "configured key wins")
	assert.Equal(t, "sk-stored", ResolveOpenAIAPIKey(ctx, "", stored, logger))
	assert.Empty(t, ResolveOpenAIAPIKey(ctx, "", NewStore(&tokenTable{err: errors.New("db down")}), logger))
	assert.Empty(t, ResolveOpenAIAPIKey(ctx, "", nil, logger))
}
