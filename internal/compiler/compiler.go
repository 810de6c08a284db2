package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/vk/shadersync/internal/ctxlog"
	"github.com/vk/shadersync/internal/fsutil"
)

// waitDelay bounds how long Compile waits for the compiler's output pipes
// after the process was killed on timeout or cancellation.
var waitDelay = time.Second

// Options configures a Glslc compiler.
type Options struct {
	// Path is the compiler name or path. Empty means DefaultCompiler.
	Path string
	// Resolve selects how Path is turned into a binary.
	Resolve Resolution
	// Flags are passed to the compiler before the input file.
	Flags []string
	// Timeout bounds a single compiler run. Zero means no limit.
	Timeout time.Duration
	// Atomic makes the compiler write to a temporary file which replaces
	// the artifact only after a successful run.
	Atomic bool
}

// Glslc invokes a glslc-compatible command line compiler:
//
//	<bin> [flags...] <input> -o <output>
type Glslc struct {
	bin     string
	flags   []string
	timeout time.Duration
	atomic  bool
}

// New resolves the compiler binary and returns a ready to use Glslc.
func New(opts Options) (*Glslc, error) {
	bin, err := Resolve(opts.Path, opts.Resolve)
	if err != nil {
		return nil, err
	}
	return &Glslc{
		bin:     bin,
		flags:   slices.Clone(opts.Flags),
		timeout: opts.Timeout,
		atomic:  opts.Atomic,
	}, nil
}

// Bin returns the resolved compiler path.
func (g *Glslc) Bin() string {
	return g.bin
}

// Compile compiles source into output. A compiler that fails or times out
// yields an *Error. Errors preparing or publishing the artifact are
// *fsutil.FilesystemError, and cancellation of ctx is returned as is.
func (g *Glslc) Compile(ctx context.Context, source, output string) error {
	logger := ctxlog.FromContext(ctx)

	target := output
	if g.atomic {
		tmp, err := tempArtifact(output)
		if err != nil {
			return err
		}
		// After a successful rename this is a no-op.
		defer os.Remove(tmp)
		target = tmp
	}

	runCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	args := append(slices.Clone(g.flags), source, "-o", target)
	cmd := exec.CommandContext(runCtx, g.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// A killed wrapper script can leave children holding stderr open.
	cmd.WaitDelay = waitDelay

	logger.Debug("Running compiler.", "command", cmd.String())
	start := time.Now()
	err := cmd.Run()
	logger.Debug("Compiler finished.", "duration", time.Since(start), "error", err)

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("compilation of %s interrupted: %w", source, ctx.Err())
		}
		return g.failure(runCtx, source, stderr.String(), err)
	}

	if g.atomic {
		if err := os.Rename(target, output); err != nil {
			return &fsutil.FilesystemError{Op: "rename", Path: output, Err: err}
		}
	}
	return nil
}

// failure converts a failed run into an *Error.
func (g *Glslc) failure(runCtx context.Context, source, stderr string, err error) *Error {
	cerr := &Error{
		Source:     source,
		ExitCode:   -1,
		Stderr:     stderr,
		Diagnostic: Diagnostic(stderr, filepath.Base(source)),
		Err:        err,
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		cerr.Err = fmt.Errorf("compiler timed out after %s: %w", g.timeout, context.DeadlineExceeded)
		cerr.Diagnostic = cerr.Err.Error()
	case errors.As(err, &exitErr):
		cerr.ExitCode = exitErr.ExitCode()
	default:
		// The process never started, so there is no compiler output.
		cerr.Diagnostic = err.Error()
	}
	return cerr
}

// tempArtifact reserves a unique hidden name next to output for the compiler
// to write into. Its extension keeps it out of artifact scans. The reserved
// file is removed again so that the compiler creates it, giving the artifact
// the same permissions as one written in place.
func tempArtifact(output string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return "", &fsutil.FilesystemError{Op: "create", Path: output, Err: err}
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return "", &fsutil.FilesystemError{Op: "create", Path: name, Err: err}
	}
	return name, nil
}
