package config

import "github.com/specialistvlad/glyphgrid/internal/picture"

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	Settings Settings
	Symbols  []*Symbol
	Targets  []*Target
}

// Settings holds run-wide knobs. Zero values mean "use the default".
type Settings struct {
	MaxSteps int
	Workers  int
	CacheDir string
}

// Symbol is a definition picture to compile, with its color roles.
type Symbol struct {
	Name       string
	Definition string // absolute or loader-resolved path
	// Function overrides the default Function color used when the
	// definition's corners do not select one.
	Function *picture.Color
	Inputs   []picture.Color
	Outputs  []picture.Color
	Loose    bool
}

// Target is a picture to scan for symbols.
type Target struct {
	Name  string
	Image string // absolute or loader-resolved path
	// Symbols restricts the scan; empty means every symbol.
	Symbols []string
	Region  *Region
}

// Region is an inclusive crop rectangle.
type Region struct {
	X1, Y1, X2, Y2 int
}
