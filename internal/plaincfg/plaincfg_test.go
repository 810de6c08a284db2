package plaincfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shadersync/internal/config"
)

func ptr[T any](v T) *T { return &v }

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func load(t *testing.T, l *Loader, name, content string) (*config.Document, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	l.getenv = fakeEnv(map[string]string{"VULKAN_SDK": "/opt/vulkan"})
	return l.Load(context.Background(), path)
}

func TestLoad(t *testing.T) {
	expected := &config.Document{
		Compiler: &config.CompilerBlock{
			Path:    ptr("/opt/vulkan/Bin/glslc"),
			Resolve: ptr("fixed"),
			Flags:   ptr("-O"),
			Timeout: ptr("1m"),
		},
		Output: &config.OutputBlock{
			Dir:    ptr("generated"),
			Atomic: ptr(false),
		},
	}

	testCases := []struct {
		name    string
		loader  *Loader
		file    string
		content string
	}{
		{
			name:   "toml",
			loader: NewTOMLLoader(),
			file:   "shadersync.toml",
			content: `
[compiler]
path = "${VULKAN_SDK}/Bin/glslc"
resolve = "fixed"
flags = "-O"
timeout = "1m"

[output]
dir = "generated"
atomic = false
`,
		},
		{
			name:   "yaml",
			loader: NewYAMLLoader(),
			file:   "shadersync.yaml",
			content: `
compiler:
  path: $VULKAN_SDK/Bin/glslc
  resolve: fixed
  flags: -O
  timeout: 1m
output:
  dir: generated
  atomic: false
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := load(t, tc.loader, tc.file, tc.content)
			require.NoError(t, err)
			if diff := cmp.Diff(expected, doc); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Partial(t *testing.T) {
	doc, err := load(t, NewTOMLLoader(), "s.toml", "[output]\natomic = true\n")
	require.NoError(t, err)
	assert.Nil(t, doc.Compiler)
	require.NotNil(t, doc.Output)
	assert.Nil(t, doc.Output.Dir)
	assert.True(t, *doc.Output.Atomic)

	doc, err = load(t, NewYAMLLoader(), "s.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, &config.Document{}, doc)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		loader  *Loader
		content string
	}{
		{name: "toml unknown key", loader: NewTOMLLoader(), content: "[compiler]\nbinary = \"glslc\"\n"},
		{name: "toml syntax", loader: NewTOMLLoader(), content: "[compiler\n"},
		{name: "toml wrong type", loader: NewTOMLLoader(), content: "[output]\natomic = \"yes please\"\n"},
		{name: "yaml unknown key", loader: NewYAMLLoader(), content: "sources:\n  extensions: [.comp]\n"},
		{name: "yaml syntax", loader: NewYAMLLoader(), content: "compiler: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.loader, "settings", tc.content)
			assert.ErrorContains(t, err, "failed to decode")
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewTOMLLoader().Load(context.Background(), filepath.Join(t.TempDir(), "none.toml"))
		assert.ErrorContains(t, err, "failed to read TOML file")
	})
}
