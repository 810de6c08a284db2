package compiler

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Error is returned by Compile when the compiler ran but did not produce an
// artifact: a non-zero exit, a timeout, or a binary that could not start.
type Error struct {
	// Source is the path of the source file being compiled.
	Source string
	// ExitCode is the compiler exit code, or -1 if it did not exit normally.
	ExitCode int
	// Stderr is the raw standard error output of the compiler.
	Stderr string
	// Diagnostic is the part of Stderr that describes the problem.
	Diagnostic string
	Err        error
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", filepath.Base(e.Source), e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic returns the text following the first occurrence of filename in
// the compiler's error output, where glslc-style compilers start their
// messages ("shader.frag:3: error: ..."). A separator colon and leading
// blanks after the name are dropped. If filename does not occur, the whole
// output is returned unchanged.
func Diagnostic(stderr, filename string) string {
	if filename == "" {
		return stderr
	}
	i := strings.Index(stderr, filename)
	if i < 0 {
		return stderr
	}
	rest := stderr[i+len(filename):]
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimLeft(rest, " \t")
}
