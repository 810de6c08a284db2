// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the on-disk vocabulary of the tool: which file names are
// shader sources, which are compiled artifacts, and how the two map onto each
// other.
//
// An artifact keeps the complete source file name, extension included, and
// appends ".spv". Keeping the stage extension is what lets "light.vert" and
// "light.frag" live side by side in one output directory as
// "light.vert.spv" and "light.frag.spv".
package shader

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// VertexExt is the extension of vertex-stage sources.
	VertexExt = ".vert"
	// FragmentExt is the extension of fragment-stage sources.
	FragmentExt = ".frag"
	// ArtifactExt is appended to a source name to form its artifact name.
	ArtifactExt = ".spv"
)

// SourceExtensions lists the extensions accepted as shader sources.
var SourceExtensions = []string{VertexExt, FragmentExt}

// Stage is the pipeline stage a source file is written for.
type Stage int

const (
	StageUnknown Stage = iota
	StageVertex
	StageFragment
)

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so stages render by name in
// structured output.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StageOf derives the stage from a source file name.
func StageOf(name string) Stage {
	switch filepath.Ext(name) {
	case VertexExt:
		return StageVertex
	case FragmentExt:
		return StageFragment
	default:
		return StageUnknown
	}
}

// File is a file observed in either directory: a source or an artifact.
type File struct {
	Name    string
	ModTime time.Time
}

// ArtifactName returns the artifact file name for a source file name.
func ArtifactName(source string) string {
	return source + ArtifactExt
}

// SourceName returns the source file name an artifact was built from.
func SourceName(artifact string) string {
	return strings.TrimSuffix(artifact, ArtifactExt)
}

// Layout pairs the source directory with the directory artifacts are
// written to. Both may be the same directory.
type Layout struct {
	SourceDir string
	OutputDir string
}

// NewLayout returns a Layout with absolute, cleaned directories. An empty
// output directory means artifacts sit next to their sources.
func NewLayout(sourceDir, outputDir string) (Layout, error) {
	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve source directory %q: %w", sourceDir, err)
	}
	if outputDir == "" {
		return Layout{SourceDir: src, OutputDir: src}, nil
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve output directory %q: %w", outputDir, err)
	}
	return Layout{SourceDir: src, OutputDir: out}, nil
}

// SourcePath returns the full path of a source file.
func (l Layout) SourcePath(source string) string {
	return filepath.Join(l.SourceDir, source)
}

// ArtifactPath returns the full path of the artifact built from source.
func (l Layout) ArtifactPath(source string) string {
	return filepath.Join(l.OutputDir, ArtifactName(source))
}
