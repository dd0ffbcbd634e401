package tests

import (
	"context"
	"testing"

	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DescriptionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DescriptionLoader.
// setupData must hold exactly the descriptions available through loader.
func DescriptionLoaderContractTest(t *testing.T, loader ports.DescriptionLoader, setupData map[string][]byte) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetDescription_Success", func(t *testing.T) {
		for name, expected := range setupData {
			content, err := loader.GetDescription(ctx, name)
			require.NoError(t, err, "getting %s", name)
			assert.Equal(t, string(expected), string(content), "content mismatch for %s", name)
		}
	})

	t.Run("GetDescription_NotFound", func(t *testing.T) {
		_, err := loader.GetDescription(ctx, "non-existent-description.fsm")
		assert.ErrorIs(t, err, domain.ErrDescriptionNotFound)
	})

	t.Run("ListDescriptions", func(t *testing.T) {
		names, err := loader.ListDescriptions(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(setupData))
		assert.IsNonDecreasing(t, names)
		for name := range setupData {
			assert.Contains(t, names, name)
		}
	})
}

// DescriptionStoreContractTest verifies the write side of a ports.DescriptionStore.
// The store should start empty.
func DescriptionStoreContractTest(t *testing.T, store ports.DescriptionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Save and Get", func(t *testing.T) {
		require.NoError(t, store.SaveDescription(ctx, "lexer.fsm", []byte("1 0 0\ns 0 0\n\nL\n")))

		content, err := store.GetDescription(ctx, "lexer.fsm")
		require.NoError(t, err)
		assert.Equal(t, "1 0 0\ns 0 0\n\nL\n", string(content))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.SaveDescription(ctx, "lexer.fsm", []byte("v2")))

		content, err := store.GetDescription(ctx, "lexer.fsm")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(content))
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.SaveDescription(ctx, "a.yaml", []byte("states: []")))

		names, err := store.ListDescriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.yaml", "lexer.fsm"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.DeleteDescription(ctx, "lexer.fsm"))
		require.NoError(t, store.DeleteDescription(ctx, "lexer.fsm"), "deleting twice is not an error")

		_, err := store.GetDescription(ctx, "lexer.fsm")
		assert.ErrorIs(t, err, domain.ErrDescriptionNotFound)

		names, err := store.ListDescriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.yaml"}, names)

		require.NoError(t, store.DeleteDescription(ctx, "a.yaml"))
	})
}
