package fsm

import (
	"fmt"
	"io"
	"strings"
)

// Edge is one outgoing alternative of a State.
type Edge struct {
	To         int
	Transition Transition
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%d", e.Transition, e.To)
}

// State is an ordered list of alternatives, tried in insertion order. A state
// without edges is accepting.
type State struct {
	Edges []Edge
}

// Accepting reports whether s terminates a search path successfully.
func (s State) Accepting() bool {
	return len(s.Edges) == 0
}

// Graph is a compiled definition. State 0 is the entry state; its entry point
// is the target's first Function-colored pixel. A Graph must not be modified
// once built, which makes it safe to share between concurrent matches.
type Graph struct {
	States []State
	Roles  *RoleTable
}

// Reachable returns, for each state, whether it can be reached from state 0.
func (g *Graph) Reachable() []bool {
	seen := make([]bool, len(g.States))
	if len(g.States) == 0 {
		return seen
	}
	stack := []int{0}
	seen[0] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.States[i].Edges {
			if e.To < 0 || e.To >= len(g.States) || seen[e.To] {
				continue
			}
			seen[e.To] = true
			stack = append(stack, e.To)
		}
	}
	return seen
}

// AcceptingStates returns the indexes of accepting states reachable from 0.
func (g *Graph) AcceptingStates() []int {
	var out []int
	for i, ok := range g.Reachable() {
		if ok && g.States[i].Accepting() {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the structural invariants a matcher relies on: edge targets
// and anchors are in range, Consume colors are registered, exactly one color
// is Function and an accepting state is reachable.
func (g *Graph) Validate() error {
	if len(g.States) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidGraph)
	}
	if g.Roles == nil {
		return fmt.Errorf("%w: missing role table", ErrInvalidGraph)
	}
	functions := 0
	for _, c := range g.Roles.Colors() {
		if r, _ := g.Roles.Role(c); r == RoleFunction {
			functions++
		}
	}
	if functions != 1 {
		return fmt.Errorf("%w: %d function colors", ErrInvalidGraph, functions)
	}

	n := len(g.States)
	for i, s := range g.States {
		for j, e := range s.Edges {
			if e.To < 0 || e.To >= n {
				return fmt.Errorf("%w: state %d edge %d targets missing state %d", ErrInvalidGraph, i, j, e.To)
			}
			t := e.Transition
			switch t.Kind {
			case KindMoveRelative:
				if t.Anchor < 0 || t.Anchor >= n {
					return fmt.Errorf("%w: state %d edge %d anchors on missing state %d", ErrInvalidGraph, i, j, t.Anchor)
				}
			case KindConsume:
				if _, ok := g.Roles.Role(t.Color); !ok {
					return fmt.Errorf("%w: state %d edge %d consumes unregistered color %s", ErrInvalidGraph, i, j, t.Color)
				}
			case KindBeginCapture, KindEndCapture, KindEpsilon:
			default:
				return fmt.Errorf("%w: state %d edge %d has unknown kind %d", ErrInvalidGraph, i, j, t.Kind)
			}
		}
	}

	if len(g.AcceptingStates()) == 0 {
		return fmt.Errorf("%w: no accepting state reachable from entry", ErrInvalidGraph)
	}
	return nil
}

// Dump writes one line per state: "index: [edge, edge]".
func (g *Graph) Dump(w io.Writer) error {
	for i, s := range g.States {
		parts := make([]string, len(s.Edges))
		for j, e := range s.Edges {
			parts[j] = e.String()
		}
		if _, err := fmt.Fprintf(w, "%d: [%s]\n", i, strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	return nil
}
