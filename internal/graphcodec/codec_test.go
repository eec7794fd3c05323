package graphcodec

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func loopGraph(t *testing.T) *fsm.Graph {
	t.Helper()
	def := testutil.Rows(
		"FRkk.",
		"....O",
	)
	g, err := fsm.Compile(context.Background(), def,
		[]picture.Color{picture.Red, picture.Green}, []picture.Color{picture.Yellow})
	require.NoError(t, err)
	return g
}

func TestRoundTripPreservesGraph(t *testing.T) {
	g := loopGraph(t)

	data, err := Marshal(g)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)

	if diff := cmp.Diff(g, decoded, cmp.AllowUnexported(fsm.RoleTable{})); diff != "" {
		t.Fatalf("decoded graph differs (-want +got):\n%s", diff)
	}
}

func TestDecodedGraphMatches(t *testing.T) {
	data, err := Marshal(loopGraph(t))
	require.NoError(t, err)
	g, err := Unmarshal(data)
	require.NoError(t, err)

	m, err := g.Identify(context.Background(), testutil.Rows(
		"FRRRR",
		"..O..",
	))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Len(t, m.Captures[picture.Red], 2)
}

func TestDecodeRejectsOtherVersion(t *testing.T) {
	data, err := msgpack.Marshal(&wireGraph{Version: Version + 1})
	require.NoError(t, err)

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestDecodeValidates(t *testing.T) {
	blue := toWire(picture.Blue)
	tests := map[string]wireGraph{
		"dangling edge": {
			Version:  Version,
			Function: blue,
			States:   [][]wireEdge{{{To: 4, Kind: fsm.KindEpsilon}}, nil},
		},
		"unregistered consume": {
			Version:  Version,
			Function: blue,
			States:   [][]wireEdge{{{To: 1, Kind: fsm.KindConsume, Color: toWire(picture.Red)}}, nil},
		},
		"function role in role list": {
			Version:  Version,
			Function: blue,
			Roles:    []wireRole{{Color: toWire(picture.Red), Role: fsm.RoleFunction}},
			States:   [][]wireEdge{nil},
		},
	}
	for name, wg := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := msgpack.Marshal(&wg)
			require.NoError(t, err)
			_, err = Unmarshal(data)
			assert.ErrorIs(t, err, fsm.ErrInvalidGraph)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xc1, 0x00, 0x01})
	assert.Error(t, err)
}

func TestEncodeNilGraph(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorIs(t, err, fsm.ErrInvalidGraph)
}
