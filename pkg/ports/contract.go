package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborui/arbor/pkg/domain"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation honors the interface semantics. Every adapter (memory,
// redis, ...) runs this same suite.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	snap := &domain.TreeSnapshot{
		SessionID: sessionID,
		Roots: []domain.NodeSnapshot{
			{
				ID:       "form",
				Kind:     "layout",
				Disabled: true,
				Channels: []domain.ChannelSpec{
					{Name: "submit", Kind: "server-call", Mode: "always-allow"},
				},
				Children: []domain.NodeSnapshot{
					{ID: "name", Kind: "textfield"},
				},
			},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Roots, 1)
		assert.Equal(t, "form", loaded.Roots[0].ID)
		assert.True(t, loaded.Roots[0].Disabled)
		require.Len(t, loaded.Roots[0].Channels, 1)
		assert.Equal(t, "always-allow", loaded.Roots[0].Channels[0].Mode)
		require.Len(t, loaded.Roots[0].Children, 1)
		assert.Equal(t, "name", loaded.Roots[0].Children[0].ID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Loaded snapshot is isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Roots[0].Disabled = false

		reloaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, reloaded.Roots[0].Disabled, "mutating a loaded snapshot must not affect the store")
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, snap))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, snap))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
