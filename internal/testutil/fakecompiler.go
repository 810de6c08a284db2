package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// fakeCompilerEnv marks a test binary that was started as a compiler.
const fakeCompilerEnv = "SHADERSYNC_FAKE_COMPILER"

// fakeSleeperEnv marks a test binary started by the fake compiler as a
// long-running child process.
const fakeSleeperEnv = "SHADERSYNC_FAKE_SLEEPER"

// Markers recognized by the fake compiler inside a shader source.
const (
	// FailMarker makes the fake compiler report a glslc-style error.
	FailMarker = "#error"
	// CrashMarker makes it fail with output that never names the input.
	CrashMarker = "#crash"
	// HangMarker makes it sleep long enough to trip any test timeout.
	HangMarker = "#hang"
	// SpawnMarker makes it behave like a wrapper script: it starts a child
	// that inherits stderr and outlives it, then hangs.
	SpawnMarker = "#spawn"
)

// RunTests is meant to be called from TestMain. When the test binary has
// been started as a compiler by FakeCompiler it behaves like glslc and exits;
// otherwise it runs the tests.
func RunTests(m *testing.M) {
	if os.Getenv(fakeSleeperEnv) == "1" {
		time.Sleep(30 * time.Second)
		os.Exit(0)
	}
	if os.Getenv(fakeCompilerEnv) == "1" {
		os.Exit(fakeCompile(os.Args[1:]))
	}
	// Compiler subprocesses inherit the environment.
	os.Setenv(fakeCompilerEnv, "1")
	os.Exit(m.Run())
}

// FakeCompiler returns the path of a binary accepting the glslc command line
// "<input> -o <output>". It requires RunTests in the package's TestMain.
func FakeCompiler(t *testing.T) string {
	t.Helper()
	if os.Getenv(fakeCompilerEnv) != "1" {
		t.Fatal("testutil.RunTests must be called from TestMain to use the fake compiler")
	}
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to locate test binary: %v", err)
	}
	return exe
}

// FakeArtifact returns the bytes the fake compiler writes for a source.
func FakeArtifact(source string) []byte {
	return append([]byte("SPIRV\n"), source...)
}

func fakeCompile(args []string) int {
	var input, output string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o" && i+1 < len(args):
			output = args[i+1]
			i++
		case !strings.HasPrefix(args[i], "-"):
			input = args[i]
		}
	}
	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "glslc: error: missing input or output file")
		return 2
	}

	src, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glslc: error: cannot open input file: '%s'\n", input)
		return 2
	}

	switch {
	case bytes.Contains(src, []byte(SpawnMarker)):
		if err := spawnSleeper(); err != nil {
			fmt.Fprintf(os.Stderr, "glslc: error: %v\n", err)
			return 2
		}
		time.Sleep(time.Minute)
	case bytes.Contains(src, []byte(HangMarker)):
		time.Sleep(time.Minute)
	case bytes.Contains(src, []byte(FailMarker)):
		fmt.Fprintf(os.Stderr, "%s:1: error: '#error' : fake compiler failure\n1 error generated.\n", input)
		return 1
	case bytes.Contains(src, []byte(CrashMarker)):
		fmt.Fprintln(os.Stderr, "internal compiler error")
		return 3
	}

	if err := os.WriteFile(output, FakeArtifact(string(src)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "glslc: error: cannot write output file: %v\n", err)
		return 2
	}
	return 0
}

// spawnSleeper starts a detached copy of the test binary that keeps this
// process's stderr open after this process is killed.
func spawnSleeper() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), fakeSleeperEnv+"=1")
	cmd.Stderr = os.Stderr
	return cmd.Start()
}
