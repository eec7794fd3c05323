// Package picture is the pixel-grid collaborator of the compiler and matcher:
// a bounds-checked 2D buffer of exact RGB colors plus image file decoding.
package picture

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/geom"
)

// ErrOutOfBounds is returned when a requested region does not fit the picture.
var ErrOutOfBounds = errors.New("region out of bounds")

// Grid is the read-only view of a picture consumed by the matcher.
type Grid interface {
	Width() int
	Height() int
	Get(x, y int) Color
	InBounds(p geom.Point) bool
	FourCorners() (Color, bool)
}

// Picture is a row-major buffer of colors.
type Picture struct {
	width  int
	height int
	pixels []Color
}

// New creates a width x height picture filled with White.
func New(width, height int) *Picture {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("picture: negative dimensions %dx%d", width, height))
	}
	pixels := make([]Color, width*height)
	for i := range pixels {
		pixels[i] = White
	}
	return &Picture{width: width, height: height, pixels: pixels}
}

// Width returns the number of columns.
func (p *Picture) Width() int { return p.width }

// Height returns the number of rows.
func (p *Picture) Height() int { return p.height }

// InBounds reports whether pt addresses a pixel of the picture.
func (p *Picture) InBounds(pt geom.Point) bool {
	return pt.X >= 0 && pt.X < p.width && pt.Y >= 0 && pt.Y < p.height
}

// Get returns the color at (x, y). Out-of-bounds reads return White.
func (p *Picture) Get(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return White
	}
	return p.pixels[y*p.width+x]
}

// Set stores c at (x, y). Out-of-bounds writes are ignored.
func (p *Picture) Set(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.pixels[y*p.width+x] = c
}

// GetPoint is Get addressed by a Point.
func (p *Picture) GetPoint(pt geom.Point) Color {
	return p.Get(pt.X, pt.Y)
}

// SetPoint is Set addressed by a Point.
func (p *Picture) SetPoint(pt geom.Point, c Color) {
	p.Set(pt.X, pt.Y, c)
}

// FourCorners returns the corner color when all four corners share one
// non-white color.
func (p *Picture) FourCorners() (Color, bool) {
	if p.width == 0 || p.height == 0 {
		return Color{}, false
	}
	c := p.Get(0, 0)
	if c != p.Get(p.width-1, 0) || c != p.Get(p.width-1, p.height-1) || c != p.Get(0, p.height-1) {
		return Color{}, false
	}
	if c == White {
		return Color{}, false
	}
	return c, true
}

// Find returns the first pixel of color c in raster order (top row first,
// then leftmost column).
func (p *Picture) Find(c Color) (geom.Point, bool) {
	return Find(p, c)
}

// Clone returns an independent copy of the picture.
func (p *Picture) Clone() *Picture {
	pixels := make([]Color, len(p.pixels))
	copy(pixels, p.pixels)
	return &Picture{width: p.width, height: p.height, pixels: pixels}
}

// Subpicture returns a copy of the inclusive region (x1, y1)-(x2, y2).
func (p *Picture) Subpicture(x1, y1, x2, y2 int) (*Picture, error) {
	if x1 > x2 || y1 > y2 || !p.InBounds(geom.Pt(x1, y1)) || !p.InBounds(geom.Pt(x2, y2)) {
		return nil, fmt.Errorf("%w: (%d,%d)-(%d,%d) in %dx%d picture", ErrOutOfBounds, x1, y1, x2, y2, p.width, p.height)
	}
	sub := New(x2-x1+1, y2-y1+1)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			sub.Set(x-x1, y-y1, p.Get(x, y))
		}
	}
	return sub, nil
}

// Copy builds a mutable Picture holding the contents of any Grid.
func Copy(g Grid) *Picture {
	if p, ok := g.(*Picture); ok {
		return p.Clone()
	}
	out := New(g.Width(), g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out.Set(x, y, g.Get(x, y))
		}
	}
	return out
}

// Find scans g in raster order for the first pixel equal to c.
func Find(g Grid, c Color) (geom.Point, bool) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) == c {
				return geom.Pt(x, y), true
			}
		}
	}
	return geom.Point{}, false
}
