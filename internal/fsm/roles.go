package fsm

import (
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// Role classifies a registered color.
type Role uint8

const (
	// RoleFunction marks the graph's spatial anchor. Exactly one color has it.
	RoleFunction Role = iota + 1
	// RoleInput marks a harvested input color.
	RoleInput
	// RoleOutput marks a harvested output color.
	RoleOutput
)

func (r Role) String() string {
	switch r {
	case RoleFunction:
		return "function"
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// RoleTable maps exact colors to roles. It is built by the caller while
// preparing a compile and travels with the compiled graph.
type RoleTable struct {
	function picture.Color
	roles    map[picture.Color]Role
	order    []picture.Color
}

// NewRoleTable creates a table whose Function color is function.
func NewRoleTable(function picture.Color) *RoleTable {
	return &RoleTable{
		function: function,
		roles:    map[picture.Color]Role{function: RoleFunction},
		order:    []picture.Color{function},
	}
}

// AddInput registers c as an Input color.
func (t *RoleTable) AddInput(c picture.Color) error {
	return t.add(c, RoleInput)
}

// AddOutput registers c as an Output color.
func (t *RoleTable) AddOutput(c picture.Color) error {
	return t.add(c, RoleOutput)
}

// add registers c. Re-registering an Input as Output (or back) replaces the
// role; the Function color cannot be re-registered.
func (t *RoleTable) add(c picture.Color, r Role) error {
	if c == picture.White || c.IsLoopMarker() {
		return fmt.Errorf("%w: %s cannot be registered as %s", ErrReservedColor, c, r)
	}
	existing, ok := t.roles[c]
	if ok && existing == RoleFunction {
		return fmt.Errorf("%w: %s is the function color and cannot become %s", ErrRoleConflict, c, r)
	}
	if !ok {
		t.order = append(t.order, c)
	}
	t.roles[c] = r
	return nil
}

// Role returns the role registered for c.
func (t *RoleTable) Role(c picture.Color) (Role, bool) {
	r, ok := t.roles[c]
	return r, ok
}

// Function returns the Function color.
func (t *RoleTable) Function() picture.Color {
	return t.function
}

// Colors returns every registered color in registration order, Function first.
func (t *RoleTable) Colors() []picture.Color {
	out := make([]picture.Color, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of registered colors.
func (t *RoleTable) Len() int {
	return len(t.order)
}
