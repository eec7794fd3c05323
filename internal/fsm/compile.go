package fsm

import (
	"context"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/geom"
	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// DefaultFunctionColor is the Function color used when the definition's four
// corners do not share one non-white color.
var DefaultFunctionColor = picture.Blue

// BuildOption customizes a Builder.
type BuildOption func(*buildConfig)

type buildConfig struct {
	defaultFunction picture.Color
}

// WithDefaultFunction overrides DefaultFunctionColor for one builder.
func WithDefaultFunction(c picture.Color) BuildOption {
	return func(cfg *buildConfig) {
		cfg.defaultFunction = c
	}
}

// Builder walks a definition picture and emits a Graph. A Builder is single
// use: it clears pixels of its private copy of the definition as it walks.
type Builder struct {
	pic    *picture.Picture
	roles  *RoleTable
	start  geom.Point
	states []State
	loops  int
	built  bool
}

// NewBuilder resolves the Function color of def and locates its anchor pixel.
// If all four corners share one non-white color, that color is the Function
// color and the corners are cleared; otherwise the default color is used.
// The definition itself is never modified.
func NewBuilder(def picture.Grid, opts ...BuildOption) (*Builder, error) {
	cfg := buildConfig{defaultFunction: DefaultFunctionColor}
	for _, opt := range opts {
		opt(&cfg)
	}

	pic := picture.Copy(def)
	function := cfg.defaultFunction
	if c, ok := pic.FourCorners(); ok {
		function = c
		w, h := pic.Width(), pic.Height()
		pic.Set(0, 0, picture.White)
		pic.Set(w-1, 0, picture.White)
		pic.Set(w-1, h-1, picture.White)
		pic.Set(0, h-1, picture.White)
	}

	start, ok := pic.Find(function)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFunctionColor, function)
	}

	return &Builder{
		pic:    pic,
		roles:  NewRoleTable(function),
		start:  start,
		states: []State{{}},
	}, nil
}

// Function returns the resolved Function color.
func (b *Builder) Function() picture.Color {
	return b.roles.Function()
}

// AddInput registers an Input color to harvest.
func (b *Builder) AddInput(c picture.Color) error {
	return b.roles.AddInput(c)
}

// AddOutput registers an Output color to harvest.
func (b *Builder) AddOutput(c picture.Color) error {
	return b.roles.AddOutput(c)
}

// Build walks the definition from the Function pixel and returns the graph.
func (b *Builder) Build(ctx context.Context) (*Graph, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling definition.", "function", b.roles.Function().String(), "anchor", b.start.String(), "colors", b.roles.Len())

	b.walk(b.start, picture.Color{}, true)

	g := &Graph{States: b.states, Roles: b.roles}
	logger.Debug("Definition compiled.", "states", len(g.States), "loops", b.loops)
	return g, nil
}

// Compile is a convenience wrapper around NewBuilder, AddInput, AddOutput and
// Build.
func Compile(ctx context.Context, def picture.Grid, inputs, outputs []picture.Color, opts ...BuildOption) (*Graph, error) {
	b, err := NewBuilder(def, opts...)
	if err != nil {
		return nil, err
	}
	for _, c := range inputs {
		if err := b.AddInput(c); err != nil {
			return nil, err
		}
	}
	for _, c := range outputs {
		if err := b.AddOutput(c); err != nil {
			return nil, err
		}
	}
	return b.Build(ctx)
}

// walk visits head and then each neighbour in canonical order. When consume
// is false head stands in for the last pixel of a loop run: it is already
// cleared and carrier is the color that loop repeats.
func (b *Builder) walk(head geom.Point, carrier picture.Color, consume bool) {
	entered := len(b.states) - 1
	if consume {
		carrier = b.pic.GetPoint(head)
		b.consume(carrier)
		b.pic.SetPoint(head, picture.White)
	}

	for _, dir := range geom.Neighbors {
		next := head.Add(dir)
		if !b.pic.InBounds(next) {
			continue
		}
		c := b.pic.GetPoint(next)

		if c.IsLoopMarker() {
			run := b.runLength(next, dir, c)
			if run < 2 {
				continue
			}
			// The run and the pixel right after it are cleared; that pixel is
			// where the walk resumes.
			for i := 0; i <= run; i++ {
				b.pic.SetPoint(next.Add(dir.Mul(i)), picture.White)
			}
			b.loop(dir, carrier, GroupID(c.R))
			if resume := next.Add(dir.Mul(run)); b.pic.InBounds(resume) {
				b.walk(resume, carrier, false)
			}
			continue
		}

		if _, ok := b.roles.Role(c); !ok {
			continue
		}
		b.moveRelative(entered, dir)
		b.walk(next, carrier, true)
	}
}

// runLength counts consecutive pixels of color c starting at from and
// heading in dir.
func (b *Builder) runLength(from, dir geom.Point, c picture.Color) int {
	n := 0
	for p := from; b.pic.InBounds(p) && b.pic.GetPoint(p) == c; p = p.Add(dir) {
		n++
	}
	return n
}

// push appends t to the last state and opens a fresh state as its target.
func (b *Builder) push(t Transition) {
	last := len(b.states) - 1
	b.states[last].Edges = append(b.states[last].Edges, Edge{To: last + 1, Transition: t})
	b.states = append(b.states, State{})
}

func (b *Builder) consume(c picture.Color) {
	b.push(Consume(c))
}

func (b *Builder) moveRelative(anchor int, offset geom.Point) {
	b.push(MoveRelative(anchor, offset))
}

// loop emits a zero-or-more repetition of Consume(c), stepping d between
// iterations, accounted under group g:
//
//	begin: BeginCapture(g) -> split
//	split: MoveRelative(split, d) -> body, Epsilon -> join
//	body:  Consume(c) -> join
//	join:  Epsilon -> split, EndCapture(g) -> next
func (b *Builder) loop(d geom.Point, c picture.Color, g GroupID) {
	b.loops++
	b.push(BeginCapture(g))

	split := len(b.states) - 1
	b.moveRelative(split, d)
	b.states[split].Edges = append(b.states[split].Edges, Edge{To: split + 2, Transition: Epsilon()})

	b.consume(c)
	join := len(b.states) - 1
	b.states[join].Edges = append(b.states[join].Edges, Edge{To: split, Transition: Epsilon()})

	b.push(EndCapture(g))
}
