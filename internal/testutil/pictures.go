package testutil

import (
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// Loop marker colors used by test fixtures.
var (
	MarkerA = picture.RGB(10, 0, 0)
	MarkerB = picture.RGB(20, 0, 0)
)

// Palette maps fixture runes to colors:
//
//	'.' white    'F' blue (default function)  'R' red  'G' green
//	'O' yellow   'X' a color never registered
//	'k' MarkerA  'm' MarkerB
var Palette = map[rune]picture.Color{
	'.': picture.White,
	'F': picture.Blue,
	'R': picture.Red,
	'G': picture.Green,
	'O': picture.Yellow,
	'X': picture.RGB(120, 60, 200),
	'k': MarkerA,
	'm': MarkerB,
}

// Rows builds a picture from equal-length rows using Palette. It panics on an
// unknown rune or ragged rows, which only happens with a broken fixture.
func Rows(rows ...string) *picture.Picture {
	return RowsWith(Palette, rows...)
}

// RowsWith is Rows with a custom palette.
func RowsWith(palette map[rune]picture.Color, rows ...string) *picture.Picture {
	if len(rows) == 0 {
		return picture.New(0, 0)
	}
	width := len([]rune(rows[0]))
	p := picture.New(width, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			panic(fmt.Sprintf("testutil: row %d has width %d, want %d", y, len(runes), width))
		}
		for x, r := range runes {
			c, ok := palette[r]
			if !ok {
				panic(fmt.Sprintf("testutil: no palette entry for %q", r))
			}
			p.Set(x, y, c)
		}
	}
	return p
}
