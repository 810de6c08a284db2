package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/shadersync/internal/fsutil"
)

// Loader is the interface for a format-specific settings file loader.
type Loader interface {
	// Load reads the settings file at path into the format-agnostic
	// Document. Values absent from the file stay nil.
	Load(ctx context.Context, path string) (*Document, error)
}

// FileLoader dispatches to a Loader chosen by the file extension.
type FileLoader struct {
	byExt map[string]Loader
}

// NewFileLoader returns a FileLoader for the given extension to loader
// mapping. Extensions include the leading dot and are matched
// case-insensitively.
func NewFileLoader(byExt map[string]Loader) *FileLoader {
	m := make(map[string]Loader, len(byExt))
	for ext, l := range byExt {
		m[strings.ToLower(ext)] = l
	}
	return &FileLoader{byExt: m}
}

// Load implements Loader.
func (f *FileLoader) Load(ctx context.Context, path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := f.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported settings file %s: extension must be one of %s",
			path, strings.Join(f.Extensions(), ", "))
	}
	return l.Load(ctx, path)
}

// Extensions returns the supported extensions, sorted.
func (f *FileLoader) Extensions() []string {
	exts := make([]string, 0, len(f.byExt))
	for ext := range f.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// DefaultNames are the settings file names looked for in the source
// directory when none is given explicitly, in order of preference.
var DefaultNames = []string{
	"shadersync.hcl",
	"shadersync.toml",
	"shadersync.yaml",
	"shadersync.yml",
}

// Discover returns the first settings file in DefaultNames found in dir, or
// an empty string.
func Discover(dir string) string {
	return fsutil.FindFirst(dir, DefaultNames...)
}
