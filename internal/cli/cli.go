package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/vk/shadersync/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError wraps a message as an ExitError with the usage exit code.
func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags may appear before or after GLSL_DIR.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("shadersync", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
shadersync - Keep a directory of SPIR-V modules in sync with its GLSL sources.

Usage:
  shadersync [options] GLSL_DIR

Arguments:
  GLSL_DIR
    Directory containing .vert and .frag shader sources.

Options:
`)
		flagSet.PrintDefaults()
	}

	var (
		outputDir string
		version   bool
	)
	flagSet.StringVar(&outputDir, "output", "", "Directory for the compiled .spv files. Defaults to GLSL_DIR.")
	flagSet.StringVar(&outputDir, "o", "", "Directory for the compiled .spv files (shorthand).")
	flagSet.BoolVar(&version, "version", false, "Print the version and exit.")
	flagSet.BoolVar(&version, "v", false, "Print the version and exit (shorthand).")
	configFlag := flagSet.String("config", "", "Project settings file (.hcl, .toml, .yaml or .yml). Defaults to shadersync.* in GLSL_DIR.")
	compilerFlag := flagSet.String("compiler", "", "Compiler binary name or path. Defaults to 'glslc'.")
	resolveFlag := flagSet.String("resolve", "", "Compiler resolution. Options: 'search' (PATH lookup) or 'fixed'.")
	flagsFlag := flagSet.String("flags", "", "Extra compiler flags, shell-quoted.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-file compiler timeout, e.g. '30s'. 0 disables it.")
	noAtomicFlag := flagSet.Bool("no-atomic", false, "Let the compiler write artifacts in place instead of via a temporary file.")
	reportFlag := flagSet.String("report", app.ReportText, "Report format. Options: 'text' or 'json'.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colors in the text report.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if len(args) == 0 {
		slog.Debug("No arguments provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var positional []string
	for {
		if err := flagSet.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, true, nil
			}
			return nil, false, usageError("%s", err.Error())
		}
		rest := flagSet.Args()
		if terminated(flagSet, args[:len(args)-len(rest)]) {
			// Everything after "--" is positional, even if it looks like a flag.
			positional = append(positional, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
	slog.Debug("Arguments parsed successfully.", "positional", positional)

	if version {
		fmt.Fprintf(output, "shadersync %s\n", app.Version)
		return nil, true, nil
	}

	switch len(positional) {
	case 0:
		return nil, false, usageError("GLSL_DIR is required")
	case 1:
	default:
		return nil, false, usageError("too many arguments: expected a single GLSL_DIR, got %q", positional)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if !slices.Contains(app.LogFormats, logFormat) {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if !slices.Contains(app.LogLevels, logLevel) {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	// Only a timeout given on the command line overrides the settings file.
	var timeout *time.Duration
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			timeout = timeoutFlag
		}
	})

	config, err := app.NewConfig(app.Config{
		InputDir:     positional[0],
		OutputDir:    outputDir,
		ConfigPath:   *configFlag,
		CompilerPath: *compilerFlag,
		Resolve:      *resolveFlag,
		Flags:        *flagsFlag,
		Timeout:      timeout,
		NoAtomic:     *noAtomicFlag,
		ReportFormat: strings.ToLower(*reportFlag),
		NoColor:      *noColorFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// terminated reports whether the consumed arguments ended with a "--" that
// flag parsing took as its terminator, rather than as the value of a flag
// such as "-flags --".
func terminated(fs *flag.FlagSet, consumed []string) bool {
	n := len(consumed)
	if n == 0 || consumed[n-1] != "--" {
		return false
	}
	if n == 1 {
		return true
	}
	prev := strings.TrimLeft(consumed[n-2], "-")
	if prev == "" || prev == consumed[n-2] || strings.Contains(prev, "=") {
		return true
	}
	f := fs.Lookup(prev)
	if f == nil {
		return true
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return true
	}
	return false
}
