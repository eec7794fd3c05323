package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a file may contain.
type fileRoot struct {
	Settings []*settingsBlock `hcl:"settings,block"`
	Symbols  []*symbolBlock   `hcl:"symbol,block"`
	Targets  []*targetBlock   `hcl:"target,block"`
}

type settingsBlock struct {
	MaxSteps *int    `hcl:"max_steps,optional"`
	Workers  *int    `hcl:"workers,optional"`
	CacheDir *string `hcl:"cache_dir,optional"`
}

// symbolBlock keeps colors as raw expressions; a color is either a hex
// string or an [r, g, b] tuple, which gohcl cannot express as one Go type.
type symbolBlock struct {
	Name       string         `hcl:"name,label"`
	Definition string         `hcl:"definition"`
	Function   hcl.Expression `hcl:"function,optional"`
	Inputs     hcl.Expression `hcl:"inputs,optional"`
	Outputs    hcl.Expression `hcl:"outputs,optional"`
	Loose      *bool          `hcl:"loose,optional"`
}

type targetBlock struct {
	Name    string   `hcl:"name,label"`
	Image   string   `hcl:"image"`
	Symbols []string `hcl:"symbols,optional"`
	Region  []int    `hcl:"region,optional"`
}
