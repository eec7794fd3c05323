package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Workspace is a temporary directory holding the HCL and image files of one
// test. It is removed when the test finishes.
type Workspace struct {
	Root string
	t    *testing.T
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{Root: t.TempDir(), t: t}
}

// Path returns the absolute path of a workspace-relative name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// WriteFile writes content under name, creating parent directories.
func (w *Workspace) WriteFile(name, content string) string {
	w.t.Helper()
	path := w.Path(name)
	require.NoError(w.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(w.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WritePicture encodes p as PNG under name, creating parent directories.
func (w *Workspace) WritePicture(name string, p *picture.Picture) string {
	w.t.Helper()
	path := w.Path(name)
	require.NoError(w.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(w.t, p.Save(path))
	return path
}
