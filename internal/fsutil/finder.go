// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
	"slices"
)

// ScanDir lists the regular files directly inside dir whose extension is one
// of the given extensions. Symlinks are followed, so a link to a regular file
// is accepted while links to directories and dangling links are not. The
// returned base names are sorted and unique.
func ScanDir(dir string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("extensions must not be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "scan", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Op: "scan", Path: dir, Err: ErrNotDir}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "scan", Path: dir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !slices.Contains(extensions, filepath.Ext(name)) {
			continue
		}
		if !IsRegularFile(filepath.Join(dir, name)) {
			continue
		}
		names = append(names, name)
	}
	// ReadDir already sorts by name and names in a directory are unique.
	return names, nil
}

// IsRegularFile reports whether path resolves, after following symlinks, to
// a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// FindFirst returns the path of the first of the given names that exists as
// a regular file in dir, or an empty string if none does.
func FindFirst(dir string, names ...string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if IsRegularFile(path) {
			return path
		}
	}
	return ""
}
