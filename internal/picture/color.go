package picture

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an exact 8-bit RGB triple. Colors compare by bit-exact equality and
// are used directly as map keys; there is no tolerance for near colors.
type Color struct {
	R, G, B uint8
}

// Common colors. White is the reserved background: it is never captured and
// marks pixels that have already been walked by the compiler.
var (
	White  = Color{R: 255, G: 255, B: 255}
	Black  = Color{R: 0, G: 0, B: 0}
	Red    = Color{R: 255, G: 0, B: 0}
	Green  = Color{R: 0, G: 255, B: 0}
	Blue   = Color{R: 0, G: 0, B: 255}
	Yellow = Color{R: 255, G: 255, B: 0}
)

// RGB creates a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// IsLoopMarker reports whether c belongs to the reserved "near-black" loop
// marker palette: green and blue are zero and red is anything but 255.
func (c Color) IsLoopMarker() bool {
	return c.G == 0 && c.B == 0 && c.R != 255
}

// String formats the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler so colors can key JSON objects.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return Color{R: r * 17, G: g * 17, B: b * 17}, nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", s)
	}
}
