package fsm

import (
	"context"
	"fmt"

	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/geom"
	"github.com/specialistvlad/glyphgrid/internal/picture"
)

// noState marks "no epsilon taken" for the reversal check.
const noState = -1

// cancelCheckEvery is how many search steps pass between context checks.
const cancelCheckEvery = 1 << 10

// Match is the result of a successful Identify.
type Match struct {
	// Captures maps every registered color to the target colors consumed at
	// the positions that matched it, in visit order.
	Captures map[picture.Color][]picture.Color
	// Consumed lists every consumed target coordinate in visit order.
	Consumed []geom.Point
	// Anchor is the target's Function pixel the search started from.
	Anchor geom.Point
	// Steps is the number of states entered during the search.
	Steps int
}

// MatchOption customizes one Identify call.
type MatchOption func(*matchConfig)

type matchConfig struct {
	maxSteps int
	loose    bool
}

// WithMaxSteps bounds the number of states the search may enter. Zero or a
// negative value means unbounded.
func WithMaxSteps(n int) MatchOption {
	return func(cfg *matchConfig) {
		cfg.maxSteps = n
	}
}

// LooseCaptures lets Input and Output consumes accept any non-white pixel,
// recording whatever color is found there. Function consumes stay exact.
func LooseCaptures() MatchOption {
	return func(cfg *matchConfig) {
		cfg.loose = true
	}
}

type openGroup struct {
	id    GroupID
	count int
}

// matcher holds the per-call search state. Every mutation made while trying
// an alternative is undone when that alternative fails, so siblings observe
// the state as it was at the branch point.
type matcher struct {
	ctx    context.Context
	graph  *Graph
	target picture.Grid
	cfg    matchConfig

	points   []geom.Point
	entered  []bool
	consumed map[geom.Point]struct{}
	trail    []geom.Point
	collect  map[picture.Color][]picture.Color
	open     []openGroup
	ended    map[GroupID]int
	steps    int
}

// Identify searches target for the graph's symbol. It returns (nil, nil) when
// the target has no Function-colored pixel or the search exhausts every
// alternative. An error is returned only when the context is cancelled or the
// step budget runs out.
func (g *Graph) Identify(ctx context.Context, target picture.Grid, opts ...MatchOption) (*Match, error) {
	var cfg matchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := ctxlog.FromContext(ctx)

	start, ok := picture.Find(target, g.Roles.Function())
	if !ok {
		logger.Debug("Target has no function color.", "function", g.Roles.Function().String())
		return nil, nil
	}

	m := &matcher{
		ctx:      ctx,
		graph:    g,
		target:   target,
		cfg:      cfg,
		points:   make([]geom.Point, len(g.States)),
		entered:  make([]bool, len(g.States)),
		consumed: make(map[geom.Point]struct{}),
		collect:  make(map[picture.Color][]picture.Color, g.Roles.Len()),
		ended:    make(map[GroupID]int),
	}
	for _, c := range g.Roles.Colors() {
		m.collect[c] = []picture.Color{}
	}

	found, err := m.visit(0, start, noState)
	if err != nil {
		logger.Debug("Match aborted.", "anchor", start.String(), "steps", m.steps, "error", err)
		return nil, fmt.Errorf("identify from %s: %w", start, err)
	}
	logger.Debug("Match finished.", "anchor", start.String(), "steps", m.steps, "matched", found)
	if !found {
		return nil, nil
	}
	return &Match{
		Captures: m.collect,
		Consumed: m.trail,
		Anchor:   start,
		Steps:    m.steps,
	}, nil
}

// visit enters state with the head at head. epsFrom is the state left by the
// epsilon transition that led here, or noState.
func (m *matcher) visit(state int, head geom.Point, epsFrom int) (bool, error) {
	m.steps++
	if m.cfg.maxSteps > 0 && m.steps > m.cfg.maxSteps {
		return false, ErrStepBudget
	}
	if m.steps%cancelCheckEvery == 0 {
		if err := m.ctx.Err(); err != nil {
			return false, err
		}
	}

	prevPoint, prevEntered := m.points[state], m.entered[state]
	m.points[state], m.entered[state] = head, true

	edges := m.graph.States[state].Edges
	if len(edges) == 0 {
		return true, nil
	}

	for _, e := range edges {
		ok, err := m.try(state, head, epsFrom, e)
		if err != nil || ok {
			return ok, err
		}
	}

	m.points[state], m.entered[state] = prevPoint, prevEntered
	return false, nil
}

func (m *matcher) try(state int, head geom.Point, epsFrom int, e Edge) (bool, error) {
	t := e.Transition
	switch t.Kind {
	case KindMoveRelative:
		if t.Anchor < 0 || t.Anchor >= len(m.points) || !m.entered[t.Anchor] {
			return false, nil
		}
		next := m.points[t.Anchor].Add(t.Offset)
		if !m.target.InBounds(next) {
			return false, nil
		}
		return m.visit(e.To, next, noState)

	case KindConsume:
		return m.consume(e, head)

	case KindEpsilon:
		if e.To == epsFrom {
			return false, nil
		}
		return m.visit(e.To, head, state)

	case KindBeginCapture:
		m.open = append(m.open, openGroup{id: t.Group})
		ok, err := m.visit(e.To, head, noState)
		if !ok && err == nil {
			m.open = m.open[:len(m.open)-1]
		}
		return ok, err

	case KindEndCapture:
		return m.endCapture(e, head)
	}
	return false, nil
}

func (m *matcher) accepts(want, got picture.Color) bool {
	if got == want {
		return true
	}
	if !m.cfg.loose {
		return false
	}
	r, _ := m.graph.Roles.Role(want)
	return r == RoleInput || r == RoleOutput
}

func (m *matcher) consume(e Edge, head geom.Point) (bool, error) {
	want := e.Transition.Color
	got := m.target.Get(head.X, head.Y)
	if got == picture.White {
		return false, nil
	}
	if _, taken := m.consumed[head]; taken {
		return false, nil
	}
	if !m.accepts(want, got) {
		return false, nil
	}
	// A group that already closed once must close again with the same count,
	// so exceeding that count here can never lead to acceptance.
	for _, g := range m.open {
		if ref, ok := m.ended[g.id]; ok && g.count+1 > ref {
			return false, nil
		}
	}

	m.collect[want] = append(m.collect[want], got)
	m.consumed[head] = struct{}{}
	m.trail = append(m.trail, head)
	for i := range m.open {
		m.open[i].count++
	}

	ok, err := m.visit(e.To, head, noState)
	if ok || err != nil {
		return ok, err
	}

	for i := range m.open {
		m.open[i].count--
	}
	m.trail = m.trail[:len(m.trail)-1]
	delete(m.consumed, head)
	m.collect[want] = m.collect[want][:len(m.collect[want])-1]
	return false, nil
}

func (m *matcher) endCapture(e Edge, head geom.Point) (bool, error) {
	id := e.Transition.Group
	idx := -1
	for i, g := range m.open {
		if g.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	count := m.open[idx].count
	ref, seen := m.ended[id]
	if seen && ref != count {
		return false, nil
	}
	if !seen {
		m.ended[id] = count
	}

	saved := m.open
	remaining := make([]openGroup, 0, len(saved))
	for _, g := range saved {
		if g.id != id {
			remaining = append(remaining, g)
		}
	}
	m.open = remaining

	ok, err := m.visit(e.To, head, noState)
	if ok || err != nil {
		return ok, err
	}

	m.open = saved
	if !seen {
		delete(m.ended, id)
	}
	return false, nil
}
