package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/missionkit/pkg/adapters/memory"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/persistence/middleware"
	"github.com/aretw0/missionkit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewRedactMiddleware([]string{"password"})
	require.NoError(t, err)
	ports.RunSnapshotStoreContract(t, mw(memory.NewStore()))
}

func TestRedactMiddleware_Masking(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	mw, err := middleware.NewRedactMiddleware([]string{"(?i)secret", "^api_key$"})
	require.NoError(t, err)
	store := mw(underlying)

	snap := domain.NewSnapshot("pii")
	snap.Steps = []domain.Step{{
		ID:   "verify",
		Kind: domain.KindVerification,
		Config: map[string]any{
			"endpoint":     "https://example.com",
			"api_key":      "abc123",
			"ClientSecret": "xyz",
			"auth": map[string]any{
				"user":        "ops",
				"secret_hash": "deadbeef",
			},
			"providers": []any{
				map[string]any{"name": "primary", "api_key": "k1"},
				[]any{map[string]any{"api_key": "k2"}},
				"plain",
			},
		},
	}}

	require.NoError(t, store.Save(ctx, "pii", snap))
	assert.Equal(t, "abc123", snap.Steps[0].Config["api_key"], "caller snapshot is untouched")

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	cfg := stored.Steps[0].Config
	assert.Equal(t, "https://example.com", cfg["endpoint"])
	assert.Equal(t, middleware.Mask, cfg["api_key"])
	assert.Equal(t, middleware.Mask, cfg["ClientSecret"])

	auth := cfg["auth"].(map[string]any)
	assert.Equal(t, "ops", auth["user"])
	assert.Equal(t, middleware.Mask, auth["secret_hash"])

	providers := cfg["providers"].([]any)
	primary := providers[0].(map[string]any)
	assert.Equal(t, "primary", primary["name"])
	assert.Equal(t, middleware.Mask, primary["api_key"])
	nested := providers[1].([]any)[0].(map[string]any)
	assert.Equal(t, middleware.Mask, nested["api_key"])
	assert.Equal(t, "plain", providers[2])

	original := snap.Steps[0].Config["providers"].([]any)[0].(map[string]any)
	assert.Equal(t, "k1", original["api_key"], "lists are copied before masking")
}

func TestNewRedactMiddleware_BadPattern(t *testing.T) {
	_, err := middleware.NewRedactMiddleware([]string{"("})
	assert.Error(t, err)
}

type closingStore struct {
	ports.SnapshotStore
	closed bool
}

func (c *closingStore) Close() error {
	c.closed = true
	return errors.New("closed")
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := &closingStore{SnapshotStore: memory.NewStore()}
	redact, err := middleware.NewRedactMiddleware([]string{"api_key"})
	require.NoError(t, err)
	encrypt := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	store := middleware.Chain(underlying, redact, encrypt)
	require.NoError(t, store.Save(ctx, "s1", secretSnapshot("s1")))

	raw, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed, "encryption is the innermost layer")

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Steps[0].Config["api_key"])

	closer, ok := store.(interface{ Close() error })
	require.True(t, ok)
	assert.EqualError(t, closer.Close(), "closed")
	assert.True(t, underlying.closed)
}
