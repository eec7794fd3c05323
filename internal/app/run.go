package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/scanner"
	"github.com/specialistvlad/glyphgrid/internal/symbolstore"
)

// Run compiles the symbols, scans every target and writes the report. It
// returns an error when any (target, symbol) pair could not be decided, for
// example because the step budget ran out; plain non-matches are not errors.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.HealthcheckPort > 0 {
		a.startHealthCheckServer(ctx, a.cfg.HealthcheckPort)
		defer a.closeHealthCheckServer(ctx)
	}

	if err := a.compileSymbols(ctx); err != nil {
		return fmt.Errorf("failed to compile symbols: %w", err)
	}

	jobs, err := a.buildJobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		a.logger.Warn("No targets configured, nothing to scan.")
		return nil
	}

	sc := scanner.New(
		scanner.WithWorkers(a.model.Settings.Workers),
		scanner.WithMaxSteps(a.model.Settings.MaxSteps),
	)
	a.logger.Debug("Scanner starting run.", "targets", len(jobs), "workers", sc.Workers())
	results, err := sc.Scan(ctx, jobs)
	if err != nil {
		return err
	}

	matched, failed := 0, 0
	for _, r := range results {
		if r.Matched() {
			matched++
		}
		if r.Err != nil {
			failed++
		}
	}
	a.logger.Info("Scan finished.", "results", len(results), "matched", matched, "failed", failed)

	if err := a.report(ctx, results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d matches could not be completed", failed, len(results))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildJobs loads every target picture and pairs it with its symbols.
func (a *App) buildJobs(ctx context.Context) ([]scanner.Job, error) {
	jobs := make([]scanner.Job, 0, len(a.model.Targets))
	for _, t := range a.model.Targets {
		pic, err := picture.Load(t.Image)
		if err != nil {
			return nil, fmt.Errorf("target '%s': %w", t.Name, err)
		}

		job := scanner.Job{Target: t.Name, Picture: pic}
		if r := t.Region; r != nil {
			job.Region = &scanner.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
		}
		for _, s := range a.model.SymbolsFor(t) {
			sym, ok := a.symbols.Get(ctx, s.Name)
			if !ok {
				return nil, fmt.Errorf("target '%s': symbol '%s' was not compiled", t.Name, s.Name)
			}
			job.Symbols = append(job.Symbols, sym)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// symbolFor is a small helper for the report, which needs the role table.
func (a *App) symbolFor(ctx context.Context, name string) *symbolstore.Symbol {
	sym, _ := a.symbols.Get(ctx, name)
	return sym
}
