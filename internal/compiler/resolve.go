package compiler

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/vk/shadersync/internal/fsutil"
)

// DefaultCompiler is the compiler looked up when none is configured.
const DefaultCompiler = "glslc"

// Resolution selects how the compiler binary is located.
type Resolution string

const (
	// ResolveSearch looks the compiler up on PATH.
	ResolveSearch Resolution = "search"
	// ResolveFixed uses the configured path as is.
	ResolveFixed Resolution = "fixed"
)

// ErrNotFound is wrapped when the compiler binary cannot be located.
var ErrNotFound = errors.New("compiler not found")

// ParseResolution validates a resolution mode given by the user.
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(s)); r {
	case ResolveSearch, ResolveFixed:
		return r, nil
	default:
		return "", fmt.Errorf("invalid compiler resolution %q: must be 'fixed' or 'search'", s)
	}
}

// Resolve returns the absolute path of the compiler binary.
func Resolve(path string, mode Resolution) (string, error) {
	if path == "" {
		path = DefaultCompiler
	}

	switch mode {
	case ResolveFixed:
		if !fsutil.IsRegularFile(path) {
			return "", fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
		}
		return filepath.Abs(path)
	case ResolveSearch, "":
		found, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return filepath.Abs(found)
	default:
		return "", fmt.Errorf("unknown compiler resolution %q", mode)
	}
}

// ParseFlags splits a shell-quoted flag string into compiler arguments.
func ParseFlags(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid compiler flags %q: %w", s, err)
	}
	return args, nil
}
