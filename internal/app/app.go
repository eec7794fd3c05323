package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/glyphgrid/internal/config"
	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/symbolstore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	cfg        *Config
	model      *config.Model
	symbols    symbolstore.Store
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW. The configuration is loaded eagerly so that broken
// files are reported before any work starts.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, &model.Settings)
	logger.Debug("Configuration loaded.",
		"symbols", len(model.Symbols),
		"targets", len(model.Targets),
		"workers", model.Settings.Workers,
		"max_steps", model.Settings.MaxSteps,
		"cache_dir", model.Settings.CacheDir,
	)

	return &App{
		outW:    outW,
		logger:  logger,
		cfg:     cfg,
		model:   model,
		symbols: symbolstore.NewMemory(),
	}, nil
}

// applyOverrides lets explicitly set flags win over file settings.
func applyOverrides(cfg *Config, s *config.Settings) {
	if cfg.Workers > 0 {
		s.Workers = cfg.Workers
	}
	if cfg.MaxSteps > 0 {
		s.MaxSteps = cfg.MaxSteps
	}
	if cfg.CacheDir != "" {
		s.CacheDir = cfg.CacheDir
	}
}

// Settings returns the effective run settings.
func (a *App) Settings() config.Settings {
	return a.model.Settings
}

// Symbols returns the store of compiled symbols. It is empty until Run has
// compiled them.
func (a *App) Symbols() symbolstore.Store {
	return a.symbols
}
