package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupDescriptionDir creates a temporary directory holding the given description files.
// It returns the absolute path to the temp dir.
// It fails the test immediately on error.
func SetupDescriptionDir(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(absPath, name), []byte(content), 0644), "Failed to write %s", name)
	}
	return absPath
}
