package symbolstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory implements Store using a map and a mutex.
type Memory struct {
	mu      sync.RWMutex
	symbols map[string]*Symbol
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{symbols: make(map[string]*Symbol)}
}

// Add registers s. Adding the same *Symbol twice is idempotent; a different
// symbol under an existing name is an error.
func (m *Memory) Add(ctx context.Context, s *Symbol) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.symbols[s.Name]; ok {
		if existing == s {
			return nil
		}
		return fmt.Errorf("%w: '%s'", ErrDuplicateSymbol, s.Name)
	}
	m.symbols[s.Name] = s
	return nil
}

// Get retrieves a symbol by name.
func (m *Memory) Get(ctx context.Context, name string) (*Symbol, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.symbols[name]
	return s, ok
}

// All returns every symbol ordered by name.
func (m *Memory) All(ctx context.Context) []*Symbol {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Symbol, 0, len(m.symbols))
	for _, s := range m.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every symbol name in order.
func (m *Memory) Names(ctx context.Context) []string {
	all := m.All(ctx)
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}
