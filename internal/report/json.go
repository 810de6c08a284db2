package report

import (
	"encoding/json"
	"io"

	"github.com/vk/shadersync/internal/shader"
	"github.com/vk/shadersync/internal/syncer"
)

// JSON buffers nothing during the run and writes a single document once the
// run finishes. Progress callbacks are ignored.
type JSON struct {
	w io.Writer
	// Err holds the first write error, if any.
	Err error
}

// NewJSON returns a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

type jsonDeletion struct {
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

type jsonResult struct {
	Name       string       `json:"name"`
	Stage      shader.Stage `json:"stage"`
	Phase      syncer.Phase `json:"phase"`
	OK         bool         `json:"ok"`
	ExitCode   int          `json:"exit_code,omitempty"`
	Diagnostic string       `json:"diagnostic,omitempty"`
}

type jsonSummary struct {
	UpToDate  bool           `json:"up_to_date"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Deleted   int            `json:"deleted"`
	Deletions []jsonDeletion `json:"deletions"`
	Compiled  []jsonResult   `json:"compiled"`
}

func (j *JSON) Cleaning(int)                {}
func (j *JSON) Deleted(syncer.Deletion)     {}
func (j *JSON) Compiling(syncer.Phase, int) {}
func (j *JSON) Compiled(syncer.Result)      {}

// Finished implements syncer.Reporter.
func (j *JSON) Finished(s *syncer.Summary) {
	doc := jsonSummary{
		UpToDate:  s.UpToDate(),
		Succeeded: s.Succeeded(),
		Failed:    s.Failed(),
		Deleted:   s.Deleted(),
		Deletions: []jsonDeletion{},
		Compiled:  []jsonResult{},
	}
	for _, d := range s.Deletions {
		jd := jsonDeletion{Path: d.Path}
		if d.Err != nil {
			jd.Error = d.Err.Error()
		}
		doc.Deletions = append(doc.Deletions, jd)
	}
	for _, results := range [][]syncer.Result{s.New, s.Recompiled} {
		for _, r := range results {
			jr := jsonResult{Name: r.Name, Stage: r.Stage, Phase: r.Phase, OK: r.Err == nil}
			if r.Err != nil {
				jr.ExitCode = r.Err.ExitCode
				jr.Diagnostic = r.Err.Diagnostic
			}
			doc.Compiled = append(doc.Compiled, jr)
		}
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil && j.Err == nil {
		j.Err = err
	}
}
