package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shadersync/internal/fsutil"
	"github.com/vk/shadersync/internal/shader"
	"github.com/vk/shadersync/internal/testutil"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		sources  []string
		outputs  []string
		expected Partition
	}{
		{
			name:     "empty",
			expected: Partition{},
		},
		{
			name:     "all new",
			sources:  []string{"y.frag", "x.vert"},
			expected: Partition{ToCompileNew: []string{"x.vert", "y.frag"}},
		},
		{
			name:     "all orphaned",
			outputs:  []string{"c.vert", "c"},
			expected: Partition{ToDelete: []string{"c", "c.vert"}},
		},
		{
			name:    "mixed",
			sources: []string{"a.vert", "b.frag", "d.frag"},
			outputs: []string{"b.frag", "c.vert", "d.frag"},
			expected: Partition{
				ToDelete:     []string{"c.vert"},
				ToCompileNew: []string{"a.vert"},
				Overlap:      []string{"b.frag", "d.frag"},
			},
		},
		{
			name:     "stage extension is part of the name",
			sources:  []string{"light.vert"},
			outputs:  []string{"light.frag"},
			expected: Partition{ToDelete: []string{"light.frag"}, ToCompileNew: []string{"light.vert"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.sources, tc.outputs)
			if diff := cmp.Diff(tc.expected, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestClassify_Partition checks on random inputs that the three groups are
// O-S, S-O and S∩O, and that together they cover S∪O exactly once.
func TestClassify_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	universe := []string{"a.vert", "a.frag", "b.vert", "b.frag", "c.vert", "c.frag", "d", "e.vert"}

	pick := func() []string {
		var out []string
		for _, n := range universe {
			if rng.Intn(2) == 0 {
				out = append(out, n)
			}
		}
		return out
	}

	for i := 0; i < 200; i++ {
		sources, outputs := pick(), pick()
		p := Classify(sources, outputs)

		seen := map[string]int{}
		for _, group := range [][]string{p.ToDelete, p.ToCompileNew, p.Overlap} {
			require.True(t, slices.IsSorted(group))
			for _, n := range group {
				seen[n]++
			}
		}

		for _, n := range universe {
			inS, inO := slices.Contains(sources, n), slices.Contains(outputs, n)
			switch {
			case inS && inO:
				assert.Contains(t, p.Overlap, n)
			case inS:
				assert.Contains(t, p.ToCompileNew, n)
			case inO:
				assert.Contains(t, p.ToDelete, n)
			}
			if inS || inO {
				assert.Equal(t, 1, seen[n], "name %s must appear in exactly one group", n)
			} else {
				assert.Zero(t, seen[n])
			}
		}
	}
}

func TestSelectStale(t *testing.T) {
	dir := t.TempDir()
	layout := shader.Layout{SourceDir: dir, OutputDir: filepath.Join(dir, "out")}
	base := testutil.Past

	pair := func(name string, srcTime, outTime time.Time) {
		testutil.WriteFile(t, layout.SourceDir, name, testutil.ValidShader, srcTime)
		testutil.WriteFile(t, layout.OutputDir, shader.ArtifactName(name), "spv", outTime)
	}
	pair("newer.vert", base.Add(time.Second), base)
	pair("equal.frag", base, base)
	pair("older.frag", base, base.Add(time.Hour))

	t.Run("strictly newer sources only", func(t *testing.T) {
		stale, err := SelectStale(layout, []string{"equal.frag", "newer.vert", "older.frag"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"newer.vert"}, stale)
	})

	t.Run("missing artifact is an error, not a skip", func(t *testing.T) {
		pair("gone.vert", base.Add(time.Second), base)
		require.NoError(t, os.Remove(layout.ArtifactPath("gone.vert")))

		stale, err := SelectStale(layout, []string{"gone.vert", "newer.vert"}, nil)

		assert.Equal(t, []string{"newer.vert"}, stale)
		var fsErr *fsutil.FilesystemError
		require.ErrorAs(t, err, &fsErr)
		assert.Equal(t, "stat", fsErr.Op)
		assert.Equal(t, layout.ArtifactPath("gone.vert"), fsErr.Path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("every failing entry is reported", func(t *testing.T) {
		failing := func(path string) (fs.FileInfo, error) {
			return nil, fmt.Errorf("stat %s: %w", path, fs.ErrPermission)
		}

		_, err := SelectStale(layout, []string{"equal.frag", "newer.vert"}, failing)

		require.Error(t, err)
		var joined interface{ Unwrap() []error }
		require.True(t, errors.As(err, &joined))
		assert.Len(t, joined.Unwrap(), 2)
		assert.ErrorContains(t, err, layout.SourcePath("equal.frag"))
		assert.ErrorContains(t, err, layout.SourcePath("newer.vert"))
	})
}
