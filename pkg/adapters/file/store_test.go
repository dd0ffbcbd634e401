package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lexfsm/internal/testutils"
	"github.com/aretw0/lexfsm/pkg/adapters/file"
	contract "github.com/aretw0/lexfsm/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoaderContract(t *testing.T) {
	files := map[string]string{
		"numbers.fsm": "1 1 0\nstart 0 0\n0\x00\nL 0\n",
		"words.yaml":  "states: [{name: s}]",
		// Ignored: unknown extension and sub directories.
		"README.md": "docs",
	}
	dir := testutils.SetupDescriptionDir(t, files)
	data := map[string][]byte{
		"numbers.fsm": []byte(files["numbers.fsm"]),
		"words.yaml":  []byte(files["words.yaml"]),
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.fsm"), 0755))

	contract.DescriptionLoaderContractTest(t, file.New(dir), data)
}

func TestStore_StoreContract(t *testing.T) {
	contract.DescriptionStoreContractTest(t, file.New(filepath.Join(t.TempDir(), "descriptions")))
}

func TestStore_InvalidNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape.fsm", "/abs.fsm", "sub/dir.fsm"} {
		_, err := store.GetDescription(ctx, name)
		assert.ErrorContains(t, err, "invalid description name", name)
		assert.Error(t, store.SaveDescription(ctx, name, nil), name)
	}
}

func TestStore_ListMissingDirectory(t *testing.T) {
	names, err := file.New(filepath.Join(t.TempDir(), "missing")).ListDescriptions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_Watch(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexer.fsm"), []byte("x"), 0644))

	select {
	case name := <-changes:
		assert.Equal(t, "lexer.fsm", name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	for range changes {
		// drain until closed
	}
}
