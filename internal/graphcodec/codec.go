// Package graphcodec serializes compiled state graphs with msgpack so they can
// be cached on disk or shipped between processes. Decoded graphs are validated
// before they are returned.
package graphcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/geom"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is the wire format revision written by Encode.
const Version = 1

// ErrVersion is returned when decoding a graph written by another format revision.
var ErrVersion = errors.New("unsupported graph format version")

type wireGraph struct {
	Version  int          `msgpack:"v"`
	Function wireColor    `msgpack:"fn"`
	Roles    []wireRole   `msgpack:"roles"`
	States   [][]wireEdge `msgpack:"states"`
}

type wireColor [3]uint8

type wireRole struct {
	Color wireColor `msgpack:"c"`
	Role  fsm.Role  `msgpack:"r"`
}

type wireEdge struct {
	To     int         `msgpack:"to"`
	Kind   fsm.Kind    `msgpack:"k"`
	Anchor int         `msgpack:"a,omitempty"`
	DX     int         `msgpack:"dx,omitempty"`
	DY     int         `msgpack:"dy,omitempty"`
	Color  wireColor   `msgpack:"c,omitempty"`
	Group  fsm.GroupID `msgpack:"g,omitempty"`
}

func toWire(c picture.Color) wireColor {
	return wireColor{c.R, c.G, c.B}
}

func fromWire(c wireColor) picture.Color {
	return picture.RGB(c[0], c[1], c[2])
}

// Encode writes g to w.
func Encode(w io.Writer, g *fsm.Graph) error {
	if g == nil || g.Roles == nil {
		return fmt.Errorf("encode graph: %w", fsm.ErrInvalidGraph)
	}

	wg := wireGraph{
		Version:  Version,
		Function: toWire(g.Roles.Function()),
		States:   make([][]wireEdge, len(g.States)),
	}
	for _, c := range g.Roles.Colors() {
		r, _ := g.Roles.Role(c)
		if r == fsm.RoleFunction {
			continue
		}
		wg.Roles = append(wg.Roles, wireRole{Color: toWire(c), Role: r})
	}
	for i, s := range g.States {
		edges := make([]wireEdge, len(s.Edges))
		for j, e := range s.Edges {
			t := e.Transition
			edges[j] = wireEdge{
				To:     e.To,
				Kind:   t.Kind,
				Anchor: t.Anchor,
				DX:     t.Offset.X,
				DY:     t.Offset.Y,
				Color:  toWire(t.Color),
				Group:  t.Group,
			}
		}
		wg.States[i] = edges
	}

	if err := msgpack.NewEncoder(w).Encode(&wg); err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	return nil
}

// Decode reads a graph written by Encode and validates it.
func Decode(r io.Reader) (*fsm.Graph, error) {
	var wg wireGraph
	if err := msgpack.NewDecoder(r).Decode(&wg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	if wg.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, wg.Version, Version)
	}

	roles := fsm.NewRoleTable(fromWire(wg.Function))
	for _, wr := range wg.Roles {
		var err error
		switch wr.Role {
		case fsm.RoleInput:
			err = roles.AddInput(fromWire(wr.Color))
		case fsm.RoleOutput:
			err = roles.AddOutput(fromWire(wr.Color))
		default:
			err = fmt.Errorf("%w: unexpected role %s", fsm.ErrInvalidGraph, wr.Role)
		}
		if err != nil {
			return nil, fmt.Errorf("decode roles: %w", err)
		}
	}

	g := &fsm.Graph{States: make([]fsm.State, len(wg.States)), Roles: roles}
	for i, edges := range wg.States {
		if len(edges) == 0 {
			continue
		}
		s := fsm.State{Edges: make([]fsm.Edge, len(edges))}
		for j, we := range edges {
			s.Edges[j] = fsm.Edge{To: we.To, Transition: fromWireEdge(we)}
		}
		g.States[i] = s
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return g, nil
}

// fromWireEdge keeps only the fields relevant to the edge kind so decoded
// transitions compare equal to the ones the compiler built.
func fromWireEdge(we wireEdge) fsm.Transition {
	switch we.Kind {
	case fsm.KindMoveRelative:
		return fsm.MoveRelative(we.Anchor, geom.Pt(we.DX, we.DY))
	case fsm.KindConsume:
		return fsm.Consume(fromWire(we.Color))
	case fsm.KindBeginCapture:
		return fsm.BeginCapture(we.Group)
	case fsm.KindEndCapture:
		return fsm.EndCapture(we.Group)
	case fsm.KindEpsilon:
		return fsm.Epsilon()
	default:
		return fsm.Transition{Kind: we.Kind}
	}
}

// Marshal returns the encoded form of g.
func Marshal(g *fsm.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a graph produced by Marshal.
func Unmarshal(data []byte) (*fsm.Graph, error) {
	return Decode(bytes.NewReader(data))
}
