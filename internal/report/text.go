// Package report renders synchronization progress and results for humans
// (Text) or machines (JSON). Both implement syncer.Reporter.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/vk/shadersync/internal/syncer"
)

// Text prints progress lines as the run advances, in the style of:
//
//	Cleaning 1 SPIRV file(s)
//	    Deleting /shaders/old.vert.spv...
//	Compiling 2 new file(s):
//	    Compiling a.vert... SUCCESS
//	    Compiling b.frag... FAILED
//	3: error: 'x' : undeclared identifier
//	1 succeeded, 1 failed
type Text struct {
	out *termenv.Output
}

// NewText returns a Text reporter writing to w. Colors are used only when w
// is a terminal that supports them and color is true.
func NewText(w io.Writer, color bool) *Text {
	opts := []termenv.OutputOption{}
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &Text{out: termenv.NewOutput(w, opts...)}
}

func (t *Text) status(ok bool, text string) string {
	color := "2" // green
	if !ok {
		color = "1" // red
	}
	return t.out.String(text).Foreground(t.out.Color(color)).Bold().String()
}

// Cleaning implements syncer.Reporter.
func (t *Text) Cleaning(count int) {
	fmt.Fprintf(t.out, "Cleaning %d SPIRV file(s)\n", count)
}

// Deleted implements syncer.Reporter.
func (t *Text) Deleted(d syncer.Deletion) {
	if d.Err != nil {
		fmt.Fprintf(t.out, "    Deleting %s... %s: %v\n", d.Path, t.status(false, "FAILED"), d.Err)
		return
	}
	fmt.Fprintf(t.out, "    Deleting %s...\n", d.Path)
}

// Compiling implements syncer.Reporter.
func (t *Text) Compiling(phase syncer.Phase, count int) {
	switch phase {
	case syncer.PhaseRecompile:
		fmt.Fprintf(t.out, "Recompiling %d file(s):\n", count)
	default:
		fmt.Fprintf(t.out, "Compiling %d new file(s):\n", count)
	}
}

// Compiled implements syncer.Reporter.
func (t *Text) Compiled(r syncer.Result) {
	if r.Err == nil {
		fmt.Fprintf(t.out, "    Compiling %s... %s\n", r.Name, t.status(true, "SUCCESS"))
		return
	}
	fmt.Fprintf(t.out, "    Compiling %s... %s\n", r.Name, t.status(false, "FAILED"))
	if diag := strings.TrimRight(r.Err.Diagnostic, "\n"); diag != "" {
		fmt.Fprintln(t.out, diag)
	}
}

// Finished implements syncer.Reporter.
func (t *Text) Finished(s *syncer.Summary) {
	fmt.Fprintln(t.out, SummaryLine(s))
}

// SummaryLine returns the one-line outcome of a run.
func SummaryLine(s *syncer.Summary) string {
	if s.UpToDate() {
		return "All shader modules up to date"
	}
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded(), s.Failed())
}
