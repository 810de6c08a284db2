package fsutil

import (
	"errors"
	"fmt"
)

// ErrNotDir is wrapped by a FilesystemError when a path expected to be a
// directory is something else.
var ErrNotDir = errors.New("not a directory")

// FilesystemError reports a failed filesystem operation on a single path:
// an unreadable directory, a failed stat, or a failed deletion.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface for FilesystemError.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}
