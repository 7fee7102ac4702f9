// Package workspace manages per-request scoped temporary directories.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a uniquely named temporary directory owned by exactly one
// in-flight request. It holds at most one input file and, after a
// successful conversion, one output file.
type Workspace struct {
	ID  string
	Dir string
}

// New allocates a fresh workspace directory under root. The uuid name
// guarantees no two requests ever share a directory, so no cross-request
// locking is needed.
func New(root string) (*Workspace, error) {
	id := uuid.New().String()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", dir, err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// Path returns the location of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, filepath.Base(name))
}

// Cleanup removes the workspace directory and everything in it. It is
// safe to call more than once.
func (w *Workspace) Cleanup() {
	if w == nil || w.Dir == "" {
		return
	}
	os.RemoveAll(w.Dir)
}
