package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/shadersync/internal/app"
	"github.com/vk/shadersync/internal/cli"
	"github.com/vk/shadersync/internal/config"
	"github.com/vk/shadersync/internal/hcl"
	"github.com/vk/shadersync/internal/plaincfg"
)

// main is the entrypoint for the shadersync application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// Interrupting stops the run before the next file and kills the
	// compiler that is currently running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	shadersync, err := app.NewApp(outW, errW, appConfig, newSettingsLoader())
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	return shadersync.Run(ctx)
}

// newSettingsLoader wires the concrete settings file formats.
func newSettingsLoader() *config.FileLoader {
	toml := plaincfg.NewTOMLLoader()
	yaml := plaincfg.NewYAMLLoader()
	return config.NewFileLoader(map[string]config.Loader{
		".hcl":  hcl.NewLoader(),
		".toml": toml,
		".yaml": yaml,
		".yml":  yaml,
	})
}
