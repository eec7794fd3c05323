package graphcache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request() Request {
	return Request{
		Definition:      testutil.Rows("FRkk"),
		Inputs:          []picture.Color{picture.Red},
		DefaultFunction: picture.Blue,
	}
}

func debugContext(buf *testutil.SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestKey(t *testing.T) {
	base := request()
	assert.Equal(t, base.Key(), request().Key(), "keys must be stable")
	assert.Len(t, base.Key(), 64)

	changed := map[string]Request{}

	r := request()
	r.Definition = testutil.Rows("FRRk")
	changed["pixels"] = r

	r = request()
	r.Definition = testutil.Rows("FR", "kk")
	changed["shape"] = r

	r = request()
	r.Inputs = nil
	r.Outputs = []picture.Color{picture.Red}
	changed["role"] = r

	r = request()
	r.DefaultFunction = picture.Green
	changed["default function"] = r

	for name, r := range changed {
		assert.NotEqual(t, base.Key(), r.Key(), name)
	}
}

func TestKey_LongColorListsDoNotCollide(t *testing.T) {
	// 256 inputs and no outputs hash the same byte stream as 256 crafted
	// outputs when the list length is written as a single byte.
	inputs := make([]picture.Color, 256)
	inputs[0] = picture.RGB('o', 0, 7)
	for i := 1; i < len(inputs); i++ {
		inputs[i] = picture.RGB(uint8(i), 1, 2)
	}
	var raw []byte
	for _, c := range inputs {
		raw = append(raw, c.R, c.G, c.B)
	}
	raw = append(raw[2:], 'o', 0)
	require.Len(t, raw, 768)
	outputs := make([]picture.Color, 0, 256)
	for i := 0; i < len(raw); i += 3 {
		outputs = append(outputs, picture.RGB(raw[i], raw[i+1], raw[i+2]))
	}

	a := request()
	a.Inputs, a.Outputs = inputs, nil
	b := request()
	b.Inputs, b.Outputs = nil, outputs
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestCompile_MissThenHit(t *testing.T) {
	var buf testutil.SafeBuffer
	ctx := debugContext(&buf)
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	first, err := c.Compile(ctx, request())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Graph cache miss.")
	assert.FileExists(t, c.path(request().Key()))

	second, err := c.Compile(ctx, request())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Graph cache hit.")

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(fsm.RoleTable{})); diff != "" {
		t.Fatalf("cached graph differs (-compiled +cached):\n%s", diff)
	}
}

func TestCompile_CorruptEntryIsReplaced(t *testing.T) {
	var buf testutil.SafeBuffer
	ctx := debugContext(&buf)
	c, err := New(t.TempDir())
	require.NoError(t, err)

	key := request().Key()
	require.NoError(t, os.WriteFile(c.path(key), []byte("not a graph"), 0644))

	g, err := c.Compile(ctx, request())
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Contains(t, buf.String(), "Discarding unreadable graph cache entry.")

	reloaded, ok, err := c.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, g.States, reloaded.States)
}

func TestCompile_PropagatesCompileErrors(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	r := request()
	r.Definition = testutil.Rows("RR")
	_, err = c.Compile(context.Background(), r)
	assert.ErrorIs(t, err, fsm.ErrNoFunctionColor)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed compiles must not leave cache entries")
}

func TestNilCacheCompiles(t *testing.T) {
	var c *Cache
	g, err := c.Compile(context.Background(), request())
	require.NoError(t, err)
	assert.Len(t, g.States, 8)
}

func TestLoadMissing(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)
	g, ok, err := c.Load("absent")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, g)
}
