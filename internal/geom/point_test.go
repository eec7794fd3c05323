package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(2, -3)
	q := Pt(-1, 5)

	assert.Equal(t, Pt(1, 2), p.Add(q))
	assert.Equal(t, Pt(3, -8), p.Sub(q))
	assert.Equal(t, Pt(6, -9), p.Mul(3))
	assert.Equal(t, Pt(0, 0), p.Mul(0))
	assert.Equal(t, "(2,-3)", p.String())
}

// TestNeighborsOrder pins the discovery priority; changing it changes which
// graph is compiled and which match is found first.
func TestNeighborsOrder(t *testing.T) {
	want := []Point{
		{1, 0}, {0, -1}, {-1, 0}, {0, 1},
		{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
	}
	assert.Equal(t, want, Neighbors[:])

	seen := make(map[Point]bool)
	for _, n := range Neighbors {
		assert.False(t, seen[n], "duplicate neighbour %s", n)
		assert.NotEqual(t, Pt(0, 0), n)
		seen[n] = true
	}
}
