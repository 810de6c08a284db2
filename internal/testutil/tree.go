package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// logsEnv enables dumping captured output of every test that calls Dump.
const logsEnv = "SHADERSYNC_TEST_LOGS"

// WriteTree creates a temporary root directory and writes files into it.
// Keys are slash separated paths relative to the root, which naturally
// creates subdirectories such as "shaders/a.vert" or "shaders/out/x.spv".
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// Dump logs output under label when SHADERSYNC_TEST_LOGS=true.
func Dump(t *testing.T, label, output string) {
	t.Helper()
	if os.Getenv(logsEnv) == "true" {
		t.Logf("--- %s for %s ---\n%s", label, t.Name(), output)
	}
}
