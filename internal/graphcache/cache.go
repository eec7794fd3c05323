// Package graphcache keeps compiled graphs on disk, keyed by a digest of
// everything that influences compilation. Compiling is cheap for small
// symbols but a large symbol sheet is recompiled on every run otherwise.
package graphcache

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/graphcodec"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"golang.org/x/crypto/blake2b"
)

const fileExt = ".graph"

// Request describes one compilation.
type Request struct {
	Definition      picture.Grid
	Inputs          []picture.Color
	Outputs         []picture.Color
	DefaultFunction picture.Color
}

// Key returns a hex digest of the request. Two requests with equal keys
// compile to equal graphs.
func (r Request) Key() string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only possible with an oversized MAC key.
		panic(err)
	}
	w, ht := r.Definition.Width(), r.Definition.Height()
	writeLen := func(n int) {
		h.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	}
	h.Write([]byte{graphcodec.Version})
	writeLen(w)
	writeLen(ht)
	row := make([]byte, 0, w*3)
	for y := 0; y < ht; y++ {
		row = row[:0]
		for x := 0; x < w; x++ {
			c := r.Definition.Get(x, y)
			row = append(row, c.R, c.G, c.B)
		}
		h.Write(row)
	}
	writeColors := func(tag byte, cs []picture.Color) {
		h.Write([]byte{tag})
		writeLen(len(cs))
		for _, c := range cs {
			h.Write([]byte{c.R, c.G, c.B})
		}
	}
	writeColors('f', []picture.Color{r.DefaultFunction})
	writeColors('i', r.Inputs)
	writeColors('o', r.Outputs)
	return hex.EncodeToString(h.Sum(nil))
}

// Compile builds the graph described by the request without caching.
func (r Request) Compile(ctx context.Context) (*fsm.Graph, error) {
	return fsm.Compile(ctx, r.Definition, r.Inputs, r.Outputs, fsm.WithDefaultFunction(r.DefaultFunction))
}

// Cache is a directory of encoded graphs. A nil *Cache compiles every request.
type Cache struct {
	dir string
}

// New opens (and creates if needed) a cache rooted at dir.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create graph cache directory '%s': %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+fileExt)
}

// Load returns the cached graph for key. A missing entry is reported as
// (nil, false, nil).
func (c *Cache) Load(key string) (*fsm.Graph, bool, error) {
	f, err := os.Open(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer f.Close()

	g, err := graphcodec.Decode(f)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return g, true, nil
}

// Store writes g under key. The entry appears atomically.
func (c *Cache) Store(key string, g *fsm.Graph) error {
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := graphcodec.Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// Compile returns the cached graph for req, compiling and storing it on a
// miss. Unreadable entries are recompiled and overwritten.
func (c *Cache) Compile(ctx context.Context, req Request) (*fsm.Graph, error) {
	if c == nil {
		return req.Compile(ctx)
	}
	logger := ctxlog.FromContext(ctx)
	key := req.Key()

	g, ok, err := c.Load(key)
	switch {
	case err != nil:
		logger.Warn("Discarding unreadable graph cache entry.", "key", key, "error", err)
	case ok:
		logger.Debug("Graph cache hit.", "key", key)
		return g, nil
	default:
		logger.Debug("Graph cache miss.", "key", key)
	}

	g, err = req.Compile(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Store(key, g); err != nil {
		logger.Warn("Failed to store compiled graph.", "key", key, "error", err)
	}
	return g, nil
}
