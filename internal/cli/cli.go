package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/glyphgrid/internal/app"
)

const usageText = `
GlyphGrid - compile pictographic symbol definitions and find them in pictures.

Usage:
  glyphgrid [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    A .hcl file or a directory of .hcl files declaring symbols and targets.

Options:
`

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// ExitError carries the process exit code for a failed invocation.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// flagValues holds the raw flag results before validation.
type flagValues struct {
	config, configShort string
	logFormat, logLevel string
	cacheDir, output    string
	healthPort          int
	workers, maxSteps   int
	dumpGraphs          bool
}

func register(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.config, "config", "", "Path to a .hcl file or a directory of .hcl files.")
	fs.StringVar(&v.configShort, "c", "", "Shorthand for -config.")
	fs.IntVar(&v.healthPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	fs.StringVar(&v.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	fs.StringVar(&v.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	fs.IntVar(&v.workers, "workers", 0, "Concurrent matches. 0 defers to the settings block, then the CPU count.")
	fs.IntVar(&v.maxSteps, "max-steps", 0, "Search step budget per match. 0 defers to the settings block, then no limit.")
	fs.StringVar(&v.cacheDir, "cache-dir", "", "Directory for cached compiled graphs.")
	fs.StringVar(&v.output, "output", app.OutputText, "Report format: 'text' or 'json'.")
	fs.BoolVar(&v.dumpGraphs, "dump-graphs", false, "Print every compiled state graph before scanning.")
	return v
}

// configPath picks -config, then -c, then the first positional argument.
func (v *flagValues) configPath(fs *flag.FlagSet) string {
	switch {
	case v.config != "":
		return v.config
	case v.configShort != "":
		return v.configShort
	default:
		return fs.Arg(0)
	}
}

// Parse turns command-line arguments into an app.Config. The boolean result
// is true when the program should exit cleanly without running, as after -h
// or when no configuration path was given.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	fs := flag.NewFlagSet("glyphgrid", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usageText)
		fs.PrintDefaults()
	}
	v := register(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err)
	}

	path := v.configPath(fs)
	if path == "" {
		slog.Debug("No config path provided, printing usage.")
		fs.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(v.logFormat)
	if !slices.Contains(logFormats, logFormat) {
		return nil, false, usageError("invalid log-format %q: must be one of %s", v.logFormat, strings.Join(logFormats, ", "))
	}
	logLevel := strings.ToLower(v.logLevel)
	if !slices.Contains(logLevels, logLevel) {
		return nil, false, usageError("invalid log-level %q: must be one of %s", v.logLevel, strings.Join(logLevels, ", "))
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:      path,
		HealthcheckPort: v.healthPort,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Workers:         v.workers,
		MaxSteps:        v.maxSteps,
		CacheDir:        v.cacheDir,
		Output:          strings.ToLower(v.output),
		DumpGraphs:      v.dumpGraphs,
	})
	if err != nil {
		return nil, false, usageError("%s", err)
	}

	slog.Debug("Command line parsed.", "config_path", cfg.ConfigPath, "output", cfg.Output)
	return cfg, false, nil
}
