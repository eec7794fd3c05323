// Package geom provides the integer coordinate type shared by the compiler and
// the matcher, together with the canonical neighbour order used to walk a
// picture.
package geom

import "fmt"

// Point is an integer pixel coordinate or offset.
type Point struct {
	X, Y int
}

// Pt is a convenience constructor for a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by an integer repeat count.
func (p Point) Mul(n int) Point {
	return Point{X: p.X * n, Y: p.Y * n}
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors is the canonical neighbour order: right, up, left, down,
// down-right, up-right, up-left, down-left. The compiler discovers neighbours
// in this order and the matcher tries the resulting transitions in the same
// order, so reordering it changes match results.
var Neighbors = [8]Point{
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 1},
}
