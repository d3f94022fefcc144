package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WalkOptions controls a traversal.
type WalkOptions struct {
	// Recursive descends into subdirectories. When false only the root's
	// immediate children are visited.
	Recursive bool

	// IncludeHidden visits entries whose name starts with a dot. Hidden
	// directories are not descended into when false.
	IncludeHidden bool
}

// WalkError records one entry that could not be read during traversal.
// Such entries are skipped, not fatal.
type WalkError struct {
	Path string
	Err  error
}

func (e WalkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Walker traverses directory trees, emitting one Entry per filesystem
// object. Directories are tracked by canonical path so symlink cycles
// terminate: each real directory is visited at most once per Walker, even
// across multiple roots.
type Walker struct {
	opts    WalkOptions
	visited map[string]struct{}
	skipped []WalkError
}

// NewWalker creates a Walker. A single Walker may be reused across several
// roots (e.g. the matches of a glob); its visited set is shared so
// overlapping roots do not produce duplicate entries.
func NewWalker(opts WalkOptions) *Walker {
	return &Walker{
		opts:    opts,
		visited: make(map[string]struct{}),
	}
}

// Skipped returns the per-entry read failures absorbed so far, in
// discovery order.
func (w *Walker) Skipped() []WalkError {
	return w.skipped
}

// Walk lists root's children, calling fn for each discovered entry. The
// root itself is not emitted. An error is returned only when the root
// cannot be read at all; per-entry failures are recorded and skipped.
func (w *Walker) Walk(root string, fn func(e *Entry)) error {
	canonical, err := canonicalDir(root)
	if err != nil {
		return err
	}
	if _, seen := w.visited[canonical]; seen {
		return nil
	}
	w.visited[canonical] = struct{}{}
	return w.walkDir(root, "", fn)
}

func (w *Walker) walkDir(dir, rel string, fn func(e *Entry)) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return err
		}
		w.skipped = append(w.skipped, WalkError{Path: dir, Err: err})
		return nil
	}

	// ReadDir sorts by name already; keep the guarantee explicit since
	// result ordering within a directory feeds the assembler's stable sort.
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

	for _, child := range children {
		name := child.Name()
		if !w.opts.IncludeHidden && len(name) > 0 && name[0] == '.' {
			continue
		}

		path := filepath.Join(dir, name)
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		entry, err := FromPath(path)
		if err != nil {
			w.skipped = append(w.skipped, WalkError{Path: path, Err: err})
			continue
		}
		entry.RelPath = childRel
		fn(entry)

		if !w.opts.Recursive {
			continue
		}
		if !w.descendable(path, entry) {
			continue
		}
		if err := w.walkDir(path, childRel, fn); err != nil {
			return err
		}
	}
	return nil
}

// descendable reports whether path is a directory to recurse into,
// following directory symlinks but refusing canonical paths already
// visited.
func (w *Walker) descendable(path string, entry *Entry) bool {
	if !entry.IsDir && !entry.IsSymlink {
		return false
	}
	if entry.IsSymlink {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return false
		}
	}
	canonical, err := canonicalDir(path)
	if err != nil {
		w.skipped = append(w.skipped, WalkError{Path: path, Err: err})
		return false
	}
	if _, seen := w.visited[canonical]; seen {
		return false
	}
	w.visited[canonical] = struct{}{}
	return true
}

func canonicalDir(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
