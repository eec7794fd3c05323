package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/config"
	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/graphcache"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/symbolstore"
)

// compileSymbols compiles every configured symbol, through the graph cache
// when one is configured, and registers the results.
func (a *App) compileSymbols(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var cache *graphcache.Cache
	if dir := a.model.Settings.CacheDir; dir != "" {
		c, err := graphcache.New(dir)
		if err != nil {
			return err
		}
		cache = c
		logger.Debug("Graph cache enabled.", "dir", dir)
	}

	for _, s := range a.model.Symbols {
		sym, err := compileSymbol(ctxlog.With(ctx, "symbol", s.Name), cache, s)
		if err != nil {
			return fmt.Errorf("symbol '%s': %w", s.Name, err)
		}
		if err := a.symbols.Add(ctx, sym); err != nil {
			return err
		}
	}
	logger.Info("Symbols compiled.", "count", len(a.model.Symbols))

	if a.cfg.DumpGraphs {
		for _, sym := range a.symbols.All(ctx) {
			fmt.Fprintf(a.outW, "symbol %s (%d states):\n", sym.Name, len(sym.Graph.States))
			if err := sym.Graph.Dump(a.outW); err != nil {
				return fmt.Errorf("failed to dump graph of '%s': %w", sym.Name, err)
			}
		}
	}
	return nil
}

func compileSymbol(ctx context.Context, cache *graphcache.Cache, s *config.Symbol) (*symbolstore.Symbol, error) {
	def, err := picture.Load(s.Definition)
	if err != nil {
		return nil, err
	}

	function := fsm.DefaultFunctionColor
	if s.Function != nil {
		function = *s.Function
	}
	g, err := cache.Compile(ctx, graphcache.Request{
		Definition:      def,
		Inputs:          s.Inputs,
		Outputs:         s.Outputs,
		DefaultFunction: function,
	})
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Symbol compiled.", "states", len(g.States), "function", g.Roles.Function().String())
	return &symbolstore.Symbol{
		Name:   s.Name,
		Source: s.Definition,
		Graph:  g,
		Loose:  s.Loose,
	}, nil
}
