package symbolstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	sym := &Symbol{Name: "add", Source: "defs/add.png"}

	require.NoError(t, s.Add(ctx, sym))
	require.NoError(t, s.Add(ctx, sym), "re-adding the same symbol is idempotent")

	got, ok := s.Get(ctx, "add")
	require.True(t, ok)
	assert.Same(t, sym, got)

	_, ok = s.Get(ctx, "sub")
	assert.False(t, ok)
}

func TestDuplicateName(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, &Symbol{Name: "add"}))

	err := s.Add(ctx, &Symbol{Name: "add"})
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestAllIsSorted(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for _, name := range []string{"mul", "add", "sub"} {
		require.NoError(t, s.Add(ctx, &Symbol{Name: name}))
	}
	assert.Equal(t, []string{"add", "mul", "sub"}, s.Names(ctx))
	assert.Len(t, s.All(ctx), 3)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Add(ctx, &Symbol{Name: fmt.Sprintf("sym-%02d", i)}))
		}(i)
		go func() {
			defer wg.Done()
			s.All(ctx)
		}()
	}
	wg.Wait()
	assert.Len(t, s.Names(ctx), 50)
}

func TestMatchOptions(t *testing.T) {
	assert.Empty(t, (&Symbol{}).MatchOptions())
	assert.Len(t, (&Symbol{Loose: true}).MatchOptions(), 1)
}
