package fsm

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/glyphgrid/internal/geom"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colors(cs ...picture.Color) []picture.Color {
	if cs == nil {
		return []picture.Color{}
	}
	return cs
}

func identify(t *testing.T, g *Graph, target *picture.Picture, opts ...MatchOption) *Match {
	t.Helper()
	m, err := g.Identify(context.Background(), target, opts...)
	require.NoError(t, err)
	return m
}

func TestIdentify_ExactMatch(t *testing.T) {
	g := compile(t, testutil.Rows("FR"), []picture.Color{inColor}, nil)

	m := identify(t, g, testutil.Rows("FR"))
	require.NotNil(t, m)
	assert.Equal(t, map[picture.Color][]picture.Color{
		fnColor: colors(fnColor),
		inColor: colors(inColor),
	}, m.Captures)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0)}, m.Consumed)
	assert.Equal(t, geom.Pt(0, 0), m.Anchor)
	assert.Positive(t, m.Steps)
}

func TestIdentify_NoMatch(t *testing.T) {
	g := compile(t, testutil.Rows("FR"), []picture.Color{inColor}, nil)

	tests := map[string]*picture.Picture{
		"wrong color":        testutil.Rows("FX"),
		"white neighbour":    testutil.Rows("F."),
		"no function pixel":  testutil.Rows("RR"),
		"neighbour off edge": testutil.Rows("F"),
		"empty target":       picture.New(0, 0),
		// Only the first Function pixel in raster order is tried.
		"later anchor ignored": testutil.Rows("..F", "FR."),
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, identify(t, g, target))
		})
	}
}

func TestIdentify_AnchorAnywhere(t *testing.T) {
	g := compile(t, testutil.Rows("FR"), []picture.Color{inColor}, nil)

	m := identify(t, g, testutil.Rows(
		"....",
		".FR.",
		"....",
	))
	require.NotNil(t, m)
	assert.Equal(t, geom.Pt(1, 1), m.Anchor)
	assert.Equal(t, []geom.Point{geom.Pt(1, 1), geom.Pt(2, 1)}, m.Consumed)
}

func TestIdentify_UnreachedColorsCaptureNothing(t *testing.T) {
	g := compile(t, testutil.Rows("FR"), []picture.Color{inColor, in2Color}, []picture.Color{outColor})

	m := identify(t, g, testutil.Rows("FR"))
	require.NotNil(t, m)
	assert.Equal(t, colors(), m.Captures[in2Color])
	assert.Equal(t, colors(), m.Captures[outColor])
	assert.Len(t, m.Captures, 4)
}

func TestIdentify_SelfMatch(t *testing.T) {
	defs := map[string]*picture.Picture{
		"pair":     testutil.Rows("FR"),
		"branch":   testutil.Rows("RF", ".G"),
		"cross":    testutil.Rows(".R.", "GFG", ".R."),
		"diagonal": testutil.Rows("F..", ".R.", "..G"),
		"repeat":   testutil.Rows("FRF."),
	}
	for name, def := range defs {
		t.Run(name, func(t *testing.T) {
			g := compile(t, def, []picture.Color{inColor, in2Color}, nil)
			m := identify(t, g, def)
			require.NotNil(t, m)

			total := 0
			for _, cs := range m.Captures {
				total += len(cs)
			}
			assert.Equal(t, len(m.Consumed), total)
		})
	}
}

func TestIdentify_NeverConsumesTwice(t *testing.T) {
	def := testutil.Rows(
		"FR",
		"RR",
	)
	g := compile(t, def, []picture.Color{inColor}, nil)

	m := identify(t, g, def)
	require.NotNil(t, m)
	seen := map[geom.Point]bool{}
	for _, p := range m.Consumed {
		assert.False(t, seen[p], "pixel %s consumed twice", p)
		seen[p] = true
	}
	assert.Len(t, m.Captures[inColor], 3)
}

func TestIdentify_Loop(t *testing.T) {
	g := compile(t, testutil.Rows("FRkk"), []picture.Color{inColor}, nil)

	tests := []struct {
		name   string
		target *picture.Picture
		reds   int
	}{
		{"zero iterations", testutil.Rows("FR"), 1},
		{"one iteration", testutil.Rows("FRR"), 2},
		{"greedy run", testutil.Rows("FRRRR"), 4},
		{"stops at other color", testutil.Rows("FRRGR"), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := identify(t, g, tc.target)
			require.NotNil(t, m)
			assert.Len(t, m.Captures[inColor], tc.reds)
		})
	}
}

func TestIdentify_LoopBacktracks(t *testing.T) {
	def := testutil.Rows(
		"FRkk.",
		"....O",
	)
	g := compile(t, def, []picture.Color{inColor}, []picture.Color{outColor})

	// The greedy run would swallow every red pixel; only stopping after one
	// iteration leaves the head above the yellow pixel.
	m := identify(t, g, testutil.Rows(
		"FRRRR",
		"..O..",
	))
	require.NotNil(t, m)
	assert.Equal(t, colors(inColor, inColor), m.Captures[inColor])
	assert.Equal(t, []geom.Point{
		geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0), geom.Pt(2, 1),
	}, m.Consumed)
}

func TestIdentify_LoopStridesMustAgree(t *testing.T) {
	inputs := []picture.Color{inColor, in2Color}
	outputs := []picture.Color{outColor}
	shared := compile(t, twoLoopDefinition('k'), inputs, outputs)
	separate := compile(t, twoLoopDefinition('m'), inputs, outputs)

	uniform := testutil.Rows(
		"FRRR.",
		"...O.",
		".GGG.",
		".O...",
	)
	uneven := testutil.Rows(
		"FRRR.",
		"...O.",
		"..GG.",
		"..O..",
	)

	t.Run("shared marker, equal runs", func(t *testing.T) {
		m := identify(t, shared, uniform)
		require.NotNil(t, m)
		assert.Equal(t, colors(fnColor), m.Captures[fnColor])
		assert.Equal(t, colors(inColor, inColor, inColor), m.Captures[inColor])
		assert.Equal(t, colors(in2Color, in2Color, in2Color), m.Captures[in2Color])
		assert.Equal(t, colors(outColor, outColor), m.Captures[outColor])
	})

	t.Run("shared marker, unequal runs", func(t *testing.T) {
		assert.Nil(t, identify(t, shared, uneven))
	})

	t.Run("distinct markers, unequal runs", func(t *testing.T) {
		m := identify(t, separate, uneven)
		require.NotNil(t, m)
		assert.Equal(t, colors(inColor, inColor, inColor), m.Captures[inColor])
		assert.Equal(t, colors(in2Color, in2Color), m.Captures[in2Color])
	})
}

func TestIdentify_LooseCaptures(t *testing.T) {
	other := testutil.Palette['X']
	g := compile(t, testutil.Rows("FRF."), []picture.Color{inColor}, nil)

	assert.Nil(t, identify(t, g, testutil.Rows("FXF.")), "exact mode requires identical colors")

	m := identify(t, g, testutil.Rows("FXF."), LooseCaptures())
	require.NotNil(t, m)
	assert.Equal(t, colors(other), m.Captures[inColor])
	assert.Equal(t, colors(fnColor, fnColor), m.Captures[fnColor])
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0)}, m.Consumed)

	assert.Nil(t, identify(t, g, testutil.Rows("FRX."), LooseCaptures()), "function consumes stay exact")
	assert.Nil(t, identify(t, g, testutil.Rows("F.F."), LooseCaptures()), "white never matches")
}

func TestIdentify_EpsilonReversalTerminates(t *testing.T) {
	g := &Graph{
		Roles: NewRoleTable(fnColor),
		States: []State{
			edges(e(1, Epsilon())),
			edges(e(0, Epsilon())),
		},
	}
	assert.Nil(t, identify(t, g, testutil.Rows("F")))
}

func TestIdentify_EndCaptureWithoutBegin(t *testing.T) {
	g := &Graph{
		Roles: NewRoleTable(fnColor),
		States: []State{
			edges(e(1, EndCapture(3))),
			{},
		},
	}
	assert.Nil(t, identify(t, g, testutil.Rows("F")))
}

func TestIdentify_MoveFromUnenteredAnchor(t *testing.T) {
	g := &Graph{
		Roles: NewRoleTable(fnColor),
		States: []State{
			edges(e(1, MoveRelative(2, geom.Pt(1, 0)))),
			edges(e(2, Consume(fnColor))),
			{},
		},
	}
	assert.Nil(t, identify(t, g, testutil.Rows("FF")))
}

// cyclicGraph bounces between three states through epsilons forever.
func cyclicGraph() *Graph {
	return &Graph{
		Roles: NewRoleTable(fnColor),
		States: []State{
			edges(e(1, Epsilon())),
			edges(e(2, Epsilon())),
			edges(e(0, Epsilon())),
		},
	}
}

func TestIdentify_StepBudget(t *testing.T) {
	m, err := cyclicGraph().Identify(context.Background(), testutil.Rows("F"), WithMaxSteps(500))
	assert.Nil(t, m)
	require.ErrorIs(t, err, ErrStepBudget)
	assert.Contains(t, err.Error(), "identify from (0,0)")
}

func TestIdentify_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := cyclicGraph().Identify(ctx, testutil.Rows("F"))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdentify_BudgetLargeEnough(t *testing.T) {
	g := compile(t, testutil.Rows("FRkk"), []picture.Color{inColor}, nil)
	m := identify(t, g, testutil.Rows("FRRR"), WithMaxSteps(1000))
	require.NotNil(t, m)
	assert.LessOrEqual(t, m.Steps, 1000)
}

func TestIdentify_ConcurrentUse(t *testing.T) {
	inputs := []picture.Color{inColor, in2Color}
	outputs := []picture.Color{outColor}
	g := compile(t, twoLoopDefinition('k'), inputs, outputs)

	matching := testutil.Rows(
		"FRRR.",
		"...O.",
		".GGG.",
		".O...",
	)
	failing := testutil.Rows(
		"FRRR.",
		"...O.",
		"..GG.",
		"..O..",
	)

	var wg sync.WaitGroup
	results := make([]*Match, 32)
	errs := make([]error, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := matching
			if i%2 == 1 {
				target = failing
			}
			results[i], errs[i] = g.Identify(context.Background(), target)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		if i%2 == 0 {
			require.NotNil(t, results[i], "run %d", i)
			assert.Len(t, results[i].Captures[in2Color], 3)
		} else {
			assert.Nil(t, results[i], "run %d", i)
		}
	}
}
