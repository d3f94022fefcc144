// Package testutil provides reusable helpers for tests that need real
// directory trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

type fileSpec struct {
	content string
	mode    os.FileMode
}

// TestTree builds a temporary directory tree for a test. Declare files and
// directories, then call Build to materialize them under t.TempDir().
type TestTree struct {
	// Path is the tree root, set by Build.
	Path string

	t     *testing.T
	files map[string]fileSpec
	dirs  []string
	links map[string]string
}

// NewTestTree creates a tree builder.
func NewTestTree(t *testing.T) *TestTree {
	t.Helper()
	return &TestTree{
		t:     t,
		files: make(map[string]fileSpec),
		links: make(map[string]string),
	}
}

// WithFile adds a regular file (mode 0644). The path is relative to the
// tree root; parent directories are created as needed.
func (tr *TestTree) WithFile(path, content string) *TestTree {
	tr.files[path] = fileSpec{content: content, mode: 0o644}
	return tr
}

// WithFileMode adds a regular file with an explicit mode.
func (tr *TestTree) WithFileMode(path, content string, mode os.FileMode) *TestTree {
	tr.files[path] = fileSpec{content: content, mode: mode}
	return tr
}

// WithDir adds an (possibly empty) directory.
func (tr *TestTree) WithDir(path string) *TestTree {
	tr.dirs = append(tr.dirs, path)
	return tr
}

// WithSymlink adds a symbolic link at path pointing at target. Relative
// targets are resolved against the tree root at Build time.
func (tr *TestTree) WithSymlink(path, target string) *TestTree {
	tr.links[path] = target
	return tr
}

// Build creates the tree and returns it for chaining.
func (tr *TestTree) Build() *TestTree {
	tr.t.Helper()
	tr.Path = tr.t.TempDir()

	for _, dir := range tr.dirs {
		if err := os.MkdirAll(filepath.Join(tr.Path, dir), 0o755); err != nil {
			tr.t.Fatalf("create dir %s: %v", dir, err)
		}
	}
	for path, spec := range tr.files {
		full := filepath.Join(tr.Path, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tr.t.Fatalf("create parent of %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(spec.content), spec.mode); err != nil {
			tr.t.Fatalf("write %s: %v", path, err)
		}
		// WriteFile honors umask; force the requested mode.
		if err := os.Chmod(full, spec.mode); err != nil {
			tr.t.Fatalf("chmod %s: %v", path, err)
		}
	}
	for path, target := range tr.links {
		if !filepath.IsAbs(target) {
			target = filepath.Join(tr.Path, target)
		}
		full := filepath.Join(tr.Path, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tr.t.Fatalf("create parent of %s: %v", path, err)
		}
		if err := os.Symlink(target, full); err != nil {
			tr.t.Fatalf("symlink %s -> %s: %v", path, target, err)
		}
	}
	return tr
}

// Join returns an absolute path inside the tree.
func (tr *TestTree) Join(rel string) string {
	return filepath.Join(tr.Path, rel)
}
