package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/shadersync/internal/compiler"
	"github.com/vk/shadersync/internal/ctxlog"
)

// Settings is the resolved project configuration.
type Settings struct {
	Compiler CompilerSettings
	Output   OutputSettings
	// File is the settings file the values came from, empty for defaults.
	File string
}

// CompilerSettings selects and parameterizes the external compiler.
type CompilerSettings struct {
	Path    string
	Resolve compiler.Resolution
	// Flags is a shell-quoted string of extra compiler arguments.
	Flags   string
	Timeout time.Duration
}

// OutputSettings controls where and how artifacts are written.
type OutputSettings struct {
	// Dir is the artifact directory; empty means the source directory.
	Dir    string
	Atomic bool
}

// Default returns the built-in settings: glslc found on PATH, no timeout,
// artifacts next to their sources, written atomically.
func Default() Settings {
	return Settings{
		Compiler: CompilerSettings{
			Path:    compiler.DefaultCompiler,
			Resolve: compiler.ResolveSearch,
		},
		Output: OutputSettings{
			Atomic: true,
		},
	}
}

// --- Settings file document ---

// Document is the decoded form shared by every settings file format. Nil
// fields were not present in the file.
type Document struct {
	Compiler *CompilerBlock `hcl:"compiler,block" toml:"compiler" yaml:"compiler"`
	Output   *OutputBlock   `hcl:"output,block" toml:"output" yaml:"output"`
}

// CompilerBlock is the `compiler` section of a settings file.
type CompilerBlock struct {
	Path    *string `hcl:"path,optional" toml:"path" yaml:"path"`
	Resolve *string `hcl:"resolve,optional" toml:"resolve" yaml:"resolve"`
	Flags   *string `hcl:"flags,optional" toml:"flags" yaml:"flags"`
	Timeout *string `hcl:"timeout,optional" toml:"timeout" yaml:"timeout"`
}

// OutputBlock is the `output` section of a settings file.
type OutputBlock struct {
	Dir    *string `hcl:"dir,optional" toml:"dir" yaml:"dir"`
	Atomic *bool   `hcl:"atomic,optional" toml:"atomic" yaml:"atomic"`
}

// Apply overlays the values present in the document onto base. Relative
// paths are resolved against baseDir, the directory of the settings file.
func (d *Document) Apply(base Settings, baseDir string) (Settings, error) {
	s := base
	if c := d.Compiler; c != nil {
		if c.Path != nil {
			s.Compiler.Path = *c.Path
		}
		if c.Resolve != nil {
			r, err := compiler.ParseResolution(*c.Resolve)
			if err != nil {
				return Settings{}, err
			}
			s.Compiler.Resolve = r
		}
		if c.Flags != nil {
			s.Compiler.Flags = *c.Flags
		}
		if c.Timeout != nil {
			t, err := time.ParseDuration(*c.Timeout)
			if err != nil {
				return Settings{}, fmt.Errorf("invalid compiler timeout %q: %w", *c.Timeout, err)
			}
			if t < 0 {
				return Settings{}, fmt.Errorf("invalid compiler timeout %q: must not be negative", *c.Timeout)
			}
			s.Compiler.Timeout = t
		}
	}
	if o := d.Output; o != nil {
		if o.Dir != nil {
			s.Output.Dir = *o.Dir
			if s.Output.Dir != "" && !filepath.IsAbs(s.Output.Dir) {
				s.Output.Dir = filepath.Join(baseDir, s.Output.Dir)
			}
		}
		if o.Atomic != nil {
			s.Output.Atomic = *o.Atomic
		}
	}
	// A fixed compiler path written relative to the settings file is
	// relative to that file, not to the working directory.
	if s.Compiler.Resolve == compiler.ResolveFixed && !filepath.IsAbs(s.Compiler.Path) &&
		d.Compiler != nil && d.Compiler.Path != nil {
		s.Compiler.Path = filepath.Join(baseDir, s.Compiler.Path)
	}
	return s, nil
}

// Load reads the settings file at path through loader and overlays it on
// Default(). An empty path yields Default().
func Load(ctx context.Context, loader Loader, path string) (Settings, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No settings file, using defaults.")
		return Default(), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve settings file %s: %w", path, err)
	}
	doc, err := loader.Load(ctx, abs)
	if err != nil {
		return Settings{}, err
	}
	s, err := doc.Apply(Default(), filepath.Dir(abs))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", abs, err)
	}
	s.File = abs
	logger.Debug("Settings file loaded.", "file", abs)
	return s, nil
}
