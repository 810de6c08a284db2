package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vk/shadersync/internal/compiler"
	"github.com/vk/shadersync/internal/config"
)

// Report formats.
const (
	ReportText = "text"
	ReportJSON = "json"
)

// Config holds everything the command line decided for one run. Empty
// strings, a nil Timeout and a false NoAtomic leave the corresponding value
// of the settings file (or its default) untouched.
type Config struct {
	InputDir   string // directory holding .vert and .frag sources
	OutputDir  string // artifact directory, defaults to InputDir
	ConfigPath string // explicit settings file

	CompilerPath string
	Resolve      string
	Flags        string
	Timeout      *time.Duration
	NoAtomic     bool

	ReportFormat string
	NoColor      bool
	LogFormat    string
	LogLevel     string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputDir == "" {
		return nil, errors.New("GLSL_DIR is required and cannot be empty")
	}
	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("invalid GLSL_DIR: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid GLSL_DIR: %s is not a directory", cfg.InputDir)
	}

	if cfg.Resolve != "" {
		if _, err := compiler.ParseResolution(cfg.Resolve); err != nil {
			return nil, err
		}
	}
	if _, err := compiler.ParseFlags(cfg.Flags); err != nil {
		return nil, fmt.Errorf("invalid compiler flags: %w", err)
	}
	if cfg.Timeout != nil && *cfg.Timeout < 0 {
		return nil, errors.New("invalid timeout: must not be negative")
	}

	switch cfg.ReportFormat {
	case "":
		cfg.ReportFormat = ReportText
	case ReportText, ReportJSON:
	default:
		return nil, errors.New("invalid report format: must be 'text' or 'json'")
	}

	return &cfg, nil
}

// apply layers the explicitly set command line values over s.
func (c *Config) apply(s config.Settings) config.Settings {
	if c.CompilerPath != "" {
		s.Compiler.Path = c.CompilerPath
	}
	if c.Resolve != "" {
		s.Compiler.Resolve = compiler.Resolution(strings.ToLower(c.Resolve))
	}
	if c.Flags != "" {
		s.Compiler.Flags = c.Flags
	}
	if c.Timeout != nil {
		s.Compiler.Timeout = *c.Timeout
	}
	if c.NoAtomic {
		s.Output.Atomic = false
	}
	if c.OutputDir != "" {
		s.Output.Dir = c.OutputDir
	}
	return s
}
