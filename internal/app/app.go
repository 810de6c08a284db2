package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/shadersync/internal/compiler"
	"github.com/vk/shadersync/internal/config"
	"github.com/vk/shadersync/internal/ctxlog"
	"github.com/vk/shadersync/internal/report"
	"github.com/vk/shadersync/internal/shader"
	"github.com/vk/shadersync/internal/syncer"
)

// Version is printed by the -version flag.
const Version = "1.0"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	settings config.Settings
	layout   shader.Layout
	json     *report.JSON
	syncer   *syncer.Synchronizer
}

// NewApp is the constructor for the main application. The report is written
// to outW and logs to errW. Settings are read through loader from
// cfg.ConfigPath, or from a settings file found in the input directory, and
// the explicit command line values are layered on top. Any error here is a
// usage problem: bad settings or a compiler that cannot be found.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	path := cfg.ConfigPath
	if path == "" {
		path = config.Discover(cfg.InputDir)
	}
	settings, err := config.Load(ctx, loader, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings = cfg.apply(settings)
	logger.Debug("Settings resolved.",
		"file", settings.File,
		"compiler", settings.Compiler.Path,
		"resolve", settings.Compiler.Resolve,
		"timeout", settings.Compiler.Timeout,
		"atomic", settings.Output.Atomic,
	)

	flags, err := compiler.ParseFlags(settings.Compiler.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid compiler flags: %w", err)
	}
	glslc, err := compiler.New(compiler.Options{
		Path:    settings.Compiler.Path,
		Resolve: settings.Compiler.Resolve,
		Flags:   flags,
		Timeout: settings.Compiler.Timeout,
		Atomic:  settings.Output.Atomic,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Compiler resolved.", "bin", glslc.Bin())

	layout, err := shader.NewLayout(cfg.InputDir, settings.Output.Dir)
	if err != nil {
		return nil, err
	}

	a := &App{
		logger:   logger,
		settings: settings,
		layout:   layout,
	}
	var reporter syncer.Reporter
	switch cfg.ReportFormat {
	case ReportJSON:
		a.json = report.NewJSON(outW)
		reporter = a.json
	default:
		reporter = report.NewText(outW, !cfg.NoColor)
	}
	a.syncer = syncer.New(layout, glslc, reporter)
	return a, nil
}

// Settings returns the merged settings. This is primarily for testing.
func (a *App) Settings() config.Settings {
	return a.settings
}

// Layout returns the resolved source and output directories.
func (a *App) Layout() shader.Layout {
	return a.layout
}
