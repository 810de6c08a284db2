package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ValidShader is a minimal shader the fake compiler accepts.
const ValidShader = "#version 450\nvoid main() {}\n"

// BadShader is a shader the fake compiler rejects.
const BadShader = "#version 450\n" + FailMarker + "\n"

// Past is a fixed timestamp well before any test run, used to age files.
var Past = time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC)

// WriteFile writes content to dir/name, creating dir if needed, and sets its
// modification time to mtime unless mtime is zero.
func WriteFile(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	if !mtime.IsZero() {
		Touch(t, path, mtime)
	}
	return path
}

// Touch sets the modification time of path.
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// ModTime returns the modification time of path.
func ModTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

// ListDir returns the sorted names of all entries in dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
