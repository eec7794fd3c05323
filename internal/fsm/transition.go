package fsm

import (
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/geom"
	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// Kind tags the variant held by a Transition.
type Kind uint8

const (
	// KindMoveRelative moves the head to Anchor's entry point plus Offset.
	KindMoveRelative Kind = iota + 1
	// KindConsume requires Color at the head and records the pixel.
	KindConsume
	// KindBeginCapture opens capture group Group.
	KindBeginCapture
	// KindEndCapture closes capture group Group.
	KindEndCapture
	// KindEpsilon changes state for free.
	KindEpsilon
)

func (k Kind) String() string {
	switch k {
	case KindMoveRelative:
		return "MoveRelative"
	case KindConsume:
		return "Consume"
	case KindBeginCapture:
		return "BeginCapture"
	case KindEndCapture:
		return "EndCapture"
	case KindEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// GroupID identifies a capture group. Loop groups take the red channel of
// their marker color.
type GroupID uint8

// Transition is a tagged variant; only the fields relevant to Kind are set.
type Transition struct {
	Kind   Kind
	Anchor int           // KindMoveRelative
	Offset geom.Point    // KindMoveRelative
	Color  picture.Color // KindConsume
	Group  GroupID       // KindBeginCapture, KindEndCapture
}

// MoveRelative creates a transition that binds the destination's entry point
// to anchor's entry point plus offset.
func MoveRelative(anchor int, offset geom.Point) Transition {
	return Transition{Kind: KindMoveRelative, Anchor: anchor, Offset: offset}
}

// Consume creates a transition that consumes a pixel of color c.
func Consume(c picture.Color) Transition {
	return Transition{Kind: KindConsume, Color: c}
}

// BeginCapture opens group g.
func BeginCapture(g GroupID) Transition {
	return Transition{Kind: KindBeginCapture, Group: g}
}

// EndCapture closes group g.
func EndCapture(g GroupID) Transition {
	return Transition{Kind: KindEndCapture, Group: g}
}

// Epsilon is a free transition.
func Epsilon() Transition {
	return Transition{Kind: KindEpsilon}
}

func (t Transition) String() string {
	switch t.Kind {
	case KindMoveRelative:
		return fmt.Sprintf("MoveRelative(%d, %s)", t.Anchor, t.Offset)
	case KindConsume:
		return fmt.Sprintf("Consume(%s)", t.Color)
	case KindBeginCapture, KindEndCapture:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Group)
	default:
		return t.Kind.String()
	}
}
