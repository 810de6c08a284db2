// Package plaincfg implements config.Loader for settings files in plain data
// formats, TOML and YAML. Unlike HCL these have no expressions, so string
// values get $VAR and ${VAR} expanded from the environment after decoding.
// Unknown keys are rejected in both formats.
package plaincfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/vk/shadersync/internal/config"
	"github.com/vk/shadersync/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// decodeFunc decodes raw file contents into doc.
type decodeFunc func(data []byte, doc *config.Document) error

// Loader reads one plain data format.
type Loader struct {
	format string
	decode decodeFunc
	getenv func(string) string
}

// NewTOMLLoader returns a loader for TOML settings files.
func NewTOMLLoader() *Loader {
	return &Loader{format: "TOML", decode: decodeTOML, getenv: os.Getenv}
}

// NewYAMLLoader returns a loader for YAML settings files.
func NewYAMLLoader() *Loader {
	return &Loader{format: "YAML", decode: decodeYAML, getenv: os.Getenv}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Settings loader started.", "format", l.format, "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", l.format, path, err)
	}

	var doc config.Document
	if err := l.decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s file %s: %w", l.format, path, err)
	}
	expand(&doc, l.getenv)
	return &doc, nil
}

func decodeTOML(data []byte, doc *config.Document) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

func decodeYAML(data []byte, doc *config.Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(doc)
	if errors.Is(err, io.EOF) {
		// An empty file is an empty document.
		return nil
	}
	return err
}

// expand substitutes environment variables in every string value present.
func expand(doc *config.Document, getenv func(string) string) {
	str := func(p *string) {
		if p != nil {
			*p = os.Expand(*p, getenv)
		}
	}
	if c := doc.Compiler; c != nil {
		str(c.Path)
		str(c.Resolve)
		str(c.Flags)
		str(c.Timeout)
	}
	if o := doc.Output; o != nil {
		str(o.Dir)
	}
}
