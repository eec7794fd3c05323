package hcl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/glyphgrid/internal/config"
	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/fsutil"
)

// ErrNoConfigFiles is returned when none of the given paths holds an .hcl file.
var ErrNoConfigFiles = errors.New("no .hcl configuration files found")

var _ config.Loader = (*Loader)(nil)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model. Image paths are resolved relative to the file that names them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoConfigFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	settingsFile := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		dir := filepath.Dir(file)
		fileCtx := ctxlog.With(ctx, "file", file)

		for _, s := range root.Settings {
			if settingsFile != "" {
				return nil, fmt.Errorf("settings block in %s: already defined in %s", file, settingsFile)
			}
			settingsFile = file
			translateSettings(s, dir, &model.Settings)
		}
		for _, s := range root.Symbols {
			sym, err := translateSymbol(fileCtx, s, dir)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Symbols = append(model.Symbols, sym)
		}
		for _, t := range root.Targets {
			tgt, err := translateTarget(t, dir)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Targets = append(model.Targets, tgt)
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "symbols", len(model.Symbols), "targets", len(model.Targets))
	return model, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func translateSettings(s *settingsBlock, dir string, out *config.Settings) {
	if s.MaxSteps != nil {
		out.MaxSteps = *s.MaxSteps
	}
	if s.Workers != nil {
		out.Workers = *s.Workers
	}
	if s.CacheDir != nil {
		out.CacheDir = resolve(dir, *s.CacheDir)
	}
}

func translateSymbol(ctx context.Context, s *symbolBlock, dir string) (*config.Symbol, error) {
	logger := ctxlog.FromContext(ctx).With("symbol", s.Name)
	logger.Debug("Translating HCL symbol to internal config model.")

	function, err := decodeColorExpr(ctx, s.Function)
	if err != nil {
		return nil, fmt.Errorf("symbol '%s' function: %w", s.Name, err)
	}
	inputs, err := decodeColorList(ctx, s.Inputs)
	if err != nil {
		return nil, fmt.Errorf("symbol '%s' inputs: %w", s.Name, err)
	}
	outputs, err := decodeColorList(ctx, s.Outputs)
	if err != nil {
		return nil, fmt.Errorf("symbol '%s' outputs: %w", s.Name, err)
	}

	sym := &config.Symbol{
		Name:       s.Name,
		Definition: resolve(dir, s.Definition),
		Function:   function,
		Inputs:     inputs,
		Outputs:    outputs,
	}
	if s.Loose != nil {
		sym.Loose = *s.Loose
	}
	return sym, nil
}

func translateTarget(t *targetBlock, dir string) (*config.Target, error) {
	tgt := &config.Target{
		Name:    t.Name,
		Image:   resolve(dir, t.Image),
		Symbols: t.Symbols,
	}
	if t.Region != nil {
		if len(t.Region) != 4 {
			return nil, fmt.Errorf("target '%s' region must be [x1, y1, x2, y2], got %d values", t.Name, len(t.Region))
		}
		tgt.Region = &config.Region{X1: t.Region[0], Y1: t.Region[1], X2: t.Region[2], Y2: t.Region[3]}
	}
	return tgt, nil
}
