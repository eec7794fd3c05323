// Package symbolstore holds the compiled symbols of one run.
//
// Symbols are written once while the configuration is compiled and then only
// read, concurrently, by the scanner workers and the health check endpoint.
package symbolstore

import (
	"context"
	"errors"

	"github.com/specialistvlad/glyphgrid/internal/fsm"
)

// ErrDuplicateSymbol is returned when a symbol name is registered twice.
var ErrDuplicateSymbol = errors.New("duplicate symbol")

// Symbol is a named compiled definition together with its match options.
type Symbol struct {
	Name string
	// Source is the definition image the graph was compiled from.
	Source string
	Graph  *fsm.Graph
	// Loose enables loose capture mode for this symbol.
	Loose bool
}

// MatchOptions returns the per-symbol options for Graph.Identify.
func (s *Symbol) MatchOptions() []fsm.MatchOption {
	if s.Loose {
		return []fsm.MatchOption{fsm.LooseCaptures()}
	}
	return nil
}

// Store is the interface for registering and looking up compiled symbols.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add registers a symbol. Names are unique.
	Add(ctx context.Context, s *Symbol) error
	// Get retrieves a symbol by name.
	Get(ctx context.Context, name string) (*Symbol, bool)
	// All returns every symbol ordered by name.
	All(ctx context.Context) []*Symbol
	// Names returns every symbol name in order.
	Names(ctx context.Context) []string
}
