package syncer

import (
	"errors"
	"fmt"

	"github.com/vk/shadersync/internal/compiler"
	"github.com/vk/shadersync/internal/shader"
)

// ErrCompileFailed is wrapped by Summary.Err when at least one file failed
// to compile.
var ErrCompileFailed = errors.New("shader compilation failed")

// Phase labels the compile pass a file belongs to.
type Phase string

const (
	PhaseNew       Phase = "new"
	PhaseRecompile Phase = "recompile"
)

// Result is the outcome of compiling one source file.
type Result struct {
	Name  string
	Stage shader.Stage
	Phase Phase
	// Err is nil on success.
	Err *compiler.Error
}

// Deletion is the outcome of removing one orphaned artifact.
type Deletion struct {
	Path string
	// Err is nil on success.
	Err error
}

// Summary aggregates a completed run.
type Summary struct {
	Deletions  []Deletion
	New        []Result
	Recompiled []Result
}

// Processed is the number of compiler invocations.
func (s *Summary) Processed() int {
	return len(s.New) + len(s.Recompiled)
}

// Failed is the number of failed compiler invocations.
func (s *Summary) Failed() int {
	return countFailed(s.New) + countFailed(s.Recompiled)
}

// Succeeded is the number of successful compiler invocations.
func (s *Summary) Succeeded() int {
	return s.Processed() - s.Failed()
}

// Deleted is the number of artifacts removed.
func (s *Summary) Deleted() int {
	n := 0
	for _, d := range s.Deletions {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// UpToDate reports whether nothing had to be compiled.
func (s *Summary) UpToDate() bool {
	return s.Processed() == 0 && s.Failed() == 0
}

// Err returns nil when every deletion and compilation succeeded. Otherwise
// it joins the cleanup failures with an error wrapping ErrCompileFailed.
func (s *Summary) Err() error {
	var errs []error
	for _, d := range s.Deletions {
		if d.Err != nil {
			errs = append(errs, d.Err)
		}
	}
	if n := s.Failed(); n > 0 {
		errs = append(errs, fmt.Errorf("%d file(s) failed to compile: %w", n, ErrCompileFailed))
	}
	return errors.Join(errs...)
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
