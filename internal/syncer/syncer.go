package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/shadersync/internal/compiler"
	"github.com/vk/shadersync/internal/ctxlog"
	"github.com/vk/shadersync/internal/fsutil"
	"github.com/vk/shadersync/internal/shader"
)

// Compiler turns one source file into one artifact. A failure that should
// be counted and reported, rather than abort the run, must be returned as a
// *compiler.Error.
type Compiler interface {
	Compile(ctx context.Context, source, output string) error
}

// Reporter receives progress events in run order.
type Reporter interface {
	Cleaning(count int)
	Deleted(d Deletion)
	Compiling(phase Phase, count int)
	Compiled(r Result)
	Finished(s *Summary)
}

// Synchronizer drives a single synchronization run.
type Synchronizer struct {
	layout   shader.Layout
	compiler Compiler
	reporter Reporter
	stat     StatFunc
	remove   func(path string) error
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithStat replaces os.Stat for the staleness check.
func WithStat(stat StatFunc) Option {
	return func(s *Synchronizer) { s.stat = stat }
}

// WithRemove replaces os.Remove for the cleanup phase.
func WithRemove(remove func(path string) error) Option {
	return func(s *Synchronizer) { s.remove = remove }
}

// New returns a Synchronizer. A nil reporter discards progress events.
func New(layout shader.Layout, c Compiler, r Reporter, opts ...Option) *Synchronizer {
	if r == nil {
		r = NopReporter{}
	}
	s := &Synchronizer{
		layout:   layout,
		compiler: c,
		reporter: r,
		stat:     os.Stat,
		remove:   os.Remove,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one synchronization. A non-nil error means the run was
// aborted: a directory could not be scanned, a timestamp could not be read,
// the compiler could not be prepared, or ctx was cancelled. Cleanup and
// compile failures do not abort the run; they are recorded in the Summary
// and surfaced by Summary.Err.
func (s *Synchronizer) Run(ctx context.Context) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Synchronization started.", "source_dir", s.layout.SourceDir, "output_dir", s.layout.OutputDir)

	// --- Scan ---
	if err := os.MkdirAll(s.layout.OutputDir, 0755); err != nil {
		return nil, &fsutil.FilesystemError{Op: "mkdir", Path: s.layout.OutputDir, Err: err}
	}
	sources, err := fsutil.ScanDir(s.layout.SourceDir, shader.SourceExtensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}
	artifacts, err := fsutil.ScanDir(s.layout.OutputDir, shader.ArtifactExt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan output directory: %w", err)
	}
	outputs := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		outputs = append(outputs, shader.SourceName(a))
	}
	logger.Debug("Directories scanned.", "sources", len(sources), "artifacts", len(artifacts))

	// --- Classify ---
	part := Classify(sources, outputs)
	toRecompile, err := SelectStale(s.layout, part.Overlap, s.stat)
	if err != nil {
		return nil, fmt.Errorf("failed to compare modification times: %w", err)
	}
	logger.Debug("Files classified.",
		"delete", len(part.ToDelete),
		"new", len(part.ToCompileNew),
		"recompile", len(toRecompile),
		"up_to_date", len(part.Overlap)-len(toRecompile),
	)

	summary := &Summary{}

	// --- Clean ---
	summary.Deletions = s.clean(ctx, part.ToDelete)

	// --- CompileNew ---
	summary.New, err = s.compileAll(ctx, PhaseNew, part.ToCompileNew)
	if err != nil {
		return nil, err
	}

	// --- Recompile ---
	summary.Recompiled, err = s.compileAll(ctx, PhaseRecompile, toRecompile)
	if err != nil {
		return nil, err
	}

	// --- Report ---
	s.reporter.Finished(summary)
	logger.Debug("Synchronization finished.",
		"deleted", summary.Deleted(),
		"succeeded", summary.Succeeded(),
		"failed", summary.Failed(),
	)
	return summary, nil
}

// clean removes the artifacts of the given source names. Every failure is
// recorded and the remaining files are still processed.
func (s *Synchronizer) clean(ctx context.Context, names []string) []Deletion {
	if len(names) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	s.reporter.Cleaning(len(names))

	deletions := make([]Deletion, 0, len(names))
	for _, name := range names {
		d := Deletion{Path: s.layout.ArtifactPath(name)}
		if err := s.remove(d.Path); err != nil {
			d.Err = &fsutil.FilesystemError{Op: "delete", Path: d.Path, Err: err}
			logger.Warn("Failed to delete orphaned artifact.", "path", d.Path, "error", err)
		}
		deletions = append(deletions, d)
		s.reporter.Deleted(d)
	}
	return deletions
}

// compileAll compiles names in order. Compiler failures are recorded in the
// results; any other error stops the run.
func (s *Synchronizer) compileAll(ctx context.Context, phase Phase, names []string) ([]Result, error) {
	if len(names) == 0 {
		return nil, nil
	}
	s.reporter.Compiling(phase, len(names))

	results := make([]Result, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("synchronization interrupted: %w", err)
		}

		fileCtx := ctxlog.With(ctx, "file", name, "phase", phase)
		err := s.compiler.Compile(fileCtx, s.layout.SourcePath(name), s.layout.ArtifactPath(name))

		r := Result{Name: name, Stage: shader.StageOf(name), Phase: phase}
		var cerr *compiler.Error
		switch {
		case err == nil:
		case errors.As(err, &cerr):
			r.Err = cerr
			ctxlog.FromContext(fileCtx).Debug("Compilation failed.", "exit_code", cerr.ExitCode)
		default:
			return results, err
		}
		results = append(results, r)
		s.reporter.Compiled(r)
	}
	return results, nil
}

// NopReporter ignores all events.
type NopReporter struct{}

func (NopReporter) Cleaning(int)         {}
func (NopReporter) Deleted(Deletion)     {}
func (NopReporter) Compiling(Phase, int) {}
func (NopReporter) Compiled(Result)      {}
func (NopReporter) Finished(*Summary)    {}
