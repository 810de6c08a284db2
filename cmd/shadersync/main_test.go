package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shadersync/internal/cli"
	"github.com/vk/shadersync/internal/syncer"
	"github.com/vk/shadersync/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.RunTests(m)
}

// fakeArgs returns the flags selecting the fake compiler, followed by args.
func fakeArgs(t *testing.T, args ...string) []string {
	return append([]string{"-compiler", testutil.FakeCompiler(t), "-resolve", "fixed", "-no-color"}, args...)
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.vert", testutil.ValidShader, time.Time{})
	testutil.WriteFile(t, dir, "b.frag", testutil.ValidShader, time.Time{})
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, fakeArgs(t, dir))

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 succeeded, 0 failed")
	assert.FileExists(t, filepath.Join(dir, "a.vert.spv"))
	assert.FileExists(t, filepath.Join(dir, "b.frag.spv"))

	// Editing one source recompiles only that file.
	testutil.Touch(t, filepath.Join(dir, "a.vert.spv"), testutil.Past)
	out.Reset()
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, fakeArgs(t, dir)))
	assert.Contains(t, out.String(), "Recompiling 1 file(s):\n    Compiling a.vert... SUCCESS\n")
	assert.Contains(t, out.String(), "1 succeeded, 0 failed")

	out.Reset()
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, fakeArgs(t, dir)))
	assert.Equal(t, "All shader modules up to date\n", out.String())
}

func TestRun_CompileFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "spv")
	testutil.WriteFile(t, dir, "bad.frag", testutil.BadShader, time.Time{})
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, fakeArgs(t, dir, "-o", outDir))

	require.Error(t, err)
	assert.True(t, errors.Is(err, syncer.ErrCompileFailed))
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "compile failures exit with 1, not a usage code")
	assert.Contains(t, out.String(), "bad.frag... FAILED")
	assert.Contains(t, out.String(), "0 succeeded, 1 failed")
	assert.Empty(t, testutil.ListDir(t, outDir))
}

func TestRun_SettingsFile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{name: "hcl", file: "shadersync.hcl", content: "compiler {\n  path = %q\n  resolve = \"fixed\"\n}\noutput {\n  dir = \"generated\"\n}\n"},
		{name: "toml", file: "shadersync.toml", content: "[compiler]\npath = %q\nresolve = \"fixed\"\n[output]\ndir = \"generated\"\n"},
		{name: "yaml", file: "shadersync.yml", content: "compiler:\n  path: %q\n  resolve: fixed\noutput:\n  dir: generated\n"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := testutil.WriteTree(t, map[string]string{
				"shaders/" + tc.file: fmt.Sprintf(tc.content, testutil.FakeCompiler(t)),
				"shaders/a.vert":     testutil.ValidShader,
			})
			dir := filepath.Join(root, "shaders")
			out, logs := &bytes.Buffer{}, &bytes.Buffer{}

			err := run(context.Background(), out, logs, []string{"-no-color", "-log-level", "debug", dir})
			testutil.Dump(t, "Log output", logs.String())

			require.NoError(t, err)
			assert.Contains(t, logs.String(), "Settings file loaded.")
			assert.Contains(t, out.String(), "1 succeeded, 0 failed")
			assert.Equal(t, []string{"a.vert.spv"}, testutil.ListDir(t, filepath.Join(dir, "generated")))
		})
	}
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"-h"}, {"-version"}} {
		out := &bytes.Buffer{}
		err := run(context.Background(), out, &bytes.Buffer{}, args)
		require.NoError(t, err, "run() should return a nil error when shouldExit is true")
		require.NotEmpty(t, out.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		args        func(t *testing.T) []string
		errContains string
	}{
		{
			name:        "unknown flag",
			args:        func(t *testing.T) []string { return []string{"--this-is-not-a-valid-flag"} },
			errContains: "flag provided but not defined: -this-is-not-a-valid-flag",
		},
		{
			name:        "flags without directory",
			args:        func(t *testing.T) []string { return fakeArgs(t, "-o", t.TempDir()) },
			errContains: "GLSL_DIR is required",
		},
		{
			name:        "invalid directory",
			args:        func(t *testing.T) []string { return []string{filepath.Join(t.TempDir(), "missing")} },
			errContains: "invalid GLSL_DIR",
		},
		{
			name: "compiler not found",
			args: func(t *testing.T) []string {
				return []string{"-compiler", filepath.Join(t.TempDir(), "glslc"), "-resolve", "fixed", t.TempDir()}
			},
			errContains: "compiler not found",
		},
		{
			name: "broken settings file",
			args: func(t *testing.T) []string {
				dir := t.TempDir()
				testutil.WriteFile(t, dir, "shadersync.yaml", "compiler: [", time.Time{})
				return []string{dir}
			},
			errContains: "failed to decode YAML file",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, tc.args(t))

			var exitErr *cli.ExitError
			require.True(t, errors.As(err, &exitErr), "expected a usage error, got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errContains)
		})
	}
}
