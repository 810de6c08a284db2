package syncer

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/vk/shadersync/internal/fsutil"
	"github.com/vk/shadersync/internal/shader"
)

// Partition splits the union of source names and artifact source names into
// three disjoint, sorted groups.
type Partition struct {
	// ToDelete holds names with an artifact but no source.
	ToDelete []string
	// ToCompileNew holds names with a source but no artifact.
	ToCompileNew []string
	// Overlap holds names with both; they are recompile candidates.
	Overlap []string
}

// Classify partitions sources (source file names) against outputs (artifact
// names with the artifact extension stripped).
func Classify(sources, outputs []string) Partition {
	src := toSet(sources)
	out := toSet(outputs)

	var p Partition
	for name := range out {
		if _, ok := src[name]; !ok {
			p.ToDelete = append(p.ToDelete, name)
		}
	}
	for name := range src {
		if _, ok := out[name]; ok {
			p.Overlap = append(p.Overlap, name)
		} else {
			p.ToCompileNew = append(p.ToCompileNew, name)
		}
	}

	slices.Sort(p.ToDelete)
	slices.Sort(p.ToCompileNew)
	slices.Sort(p.Overlap)
	return p
}

// StatFunc returns file information for a path; os.Stat in production.
type StatFunc func(path string) (fs.FileInfo, error)

// SelectStale returns the members of overlap whose source was modified
// strictly after its artifact. Equal timestamps count as up to date. Every
// entry whose source or artifact cannot be stat'ed produces a
// *fsutil.FilesystemError; these are joined and returned together so no
// entry is skipped silently.
func SelectStale(layout shader.Layout, overlap []string, stat StatFunc) ([]string, error) {
	if stat == nil {
		stat = os.Stat
	}

	var stale []string
	var errs []error
	for _, name := range overlap {
		src, err := modTime(stat, layout.SourcePath(name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out, err := modTime(stat, layout.ArtifactPath(name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if src.ModTime.After(out.ModTime) {
			stale = append(stale, name)
		}
	}
	return stale, errors.Join(errs...)
}

func modTime(stat StatFunc, path string) (shader.File, error) {
	info, err := stat(path)
	if err != nil {
		return shader.File{}, &fsutil.FilesystemError{Op: "stat", Path: path, Err: err}
	}
	return shader.File{Name: info.Name(), ModTime: info.ModTime()}, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
