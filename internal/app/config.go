package app

import (
	"errors"
	"fmt"
)

// Output formats for the match report.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
// Non-zero Workers, MaxSteps and CacheDir override the values from the
// configuration files.
type Config struct {
	ConfigPath string // .hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	Workers    int
	MaxSteps   int
	CacheDir   string
	Output     string
	DumpGraphs bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	switch cfg.Output {
	case "":
		cfg.Output = OutputText
	case OutputText, OutputJSON:
	default:
		return nil, fmt.Errorf("invalid output format '%s': must be '%s' or '%s'", cfg.Output, OutputText, OutputJSON)
	}
	if cfg.Workers < 0 || cfg.MaxSteps < 0 {
		return nil, errors.New("workers and max-steps must not be negative")
	}
	return &cfg, nil
}
