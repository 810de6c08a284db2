package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/shadersync/internal/config"
	"github.com/vk/shadersync/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL settings loader reading the process
// environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses and decodes a single HCL settings file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	evalCtx, err := l.evalContext(path)
	if err != nil {
		return nil, err
	}

	var doc config.Document
	diags = gohcl.DecodeBody(file.Body, evalCtx, &doc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	logger.Debug("HCL settings decoded.", "has_compiler", doc.Compiler != nil, "has_output", doc.Output != nil)
	return &doc, nil
}

// evalContext builds the variables available to expressions in a settings
// file.
func (l *Loader) evalContext(path string) (*hcl.EvalContext, error) {
	env := map[string]string{}
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		// Windows keeps per-drive working directories as "=C:=C:\...".
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	envVal, err := gocty.ToCtyValue(env, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("failed to expose environment to HCL: %w", err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings directory: %w", err)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":        envVal,
			"config_dir": cty.StringVal(dir),
		},
	}, nil
}
