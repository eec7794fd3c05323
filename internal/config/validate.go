package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// ErrInvalidModel wraps every validation failure.
var ErrInvalidModel = errors.New("invalid configuration")

// Validate checks cross-block references: names are unique, targets only
// name known symbols and settings are not negative.
func (m *Model) Validate() error {
	var errs []error

	if m.Settings.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative, got %d", m.Settings.MaxSteps))
	}
	if m.Settings.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", m.Settings.Workers))
	}

	symbols := make(map[string]struct{}, len(m.Symbols))
	for _, s := range m.Symbols {
		if _, dup := symbols[s.Name]; dup {
			errs = append(errs, fmt.Errorf("symbol '%s' is defined more than once", s.Name))
		}
		symbols[s.Name] = struct{}{}
		if s.Definition == "" {
			errs = append(errs, fmt.Errorf("symbol '%s' has no definition image", s.Name))
		}
		if f := s.Function; f != nil && (*f == picture.White || f.IsLoopMarker()) {
			errs = append(errs, fmt.Errorf("symbol '%s' function color %s is reserved", s.Name, f))
		}
	}

	targets := make(map[string]struct{}, len(m.Targets))
	for _, t := range m.Targets {
		if _, dup := targets[t.Name]; dup {
			errs = append(errs, fmt.Errorf("target '%s' is defined more than once", t.Name))
		}
		targets[t.Name] = struct{}{}
		if t.Image == "" {
			errs = append(errs, fmt.Errorf("target '%s' has no image", t.Name))
		}
		for _, name := range t.Symbols {
			if _, ok := symbols[name]; !ok {
				errs = append(errs, fmt.Errorf("target '%s' references unknown symbol '%s'", t.Name, name))
			}
		}
		if r := t.Region; r != nil && (r.X1 > r.X2 || r.Y1 > r.Y2 || r.X1 < 0 || r.Y1 < 0) {
			errs = append(errs, fmt.Errorf("target '%s' has an empty or negative region", t.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidModel, errors.Join(errs...))
	}
	return nil
}

// SymbolsFor returns the symbols a target should be matched against, in
// model order.
func (m *Model) SymbolsFor(t *Target) []*Symbol {
	if len(t.Symbols) == 0 {
		return m.Symbols
	}
	want := make(map[string]struct{}, len(t.Symbols))
	for _, name := range t.Symbols {
		want[name] = struct{}{}
	}
	var out []*Symbol
	for _, s := range m.Symbols {
		if _, ok := want[s.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}
