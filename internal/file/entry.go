// Package file provides the filesystem entry model used by queries and
// listings: metadata snapshots, typed attribute access, and directory
// traversal.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PermMask is the portion of the file mode that queries compare and
// mutations change: permission bits plus setuid/setgid/sticky.
const PermMask = 0o7777

// Entry is a snapshot of one filesystem object, taken at traversal time.
// Derived attributes (extension, executability, hiddenness) are always
// computed from the snapshot fields, never cached separately.
type Entry struct {
	// Path is the absolute path of the entry.
	Path string

	// RelPath is the path relative to the traversal root ("." separators
	// normalized to '/'). Equal to Name for entries discovered directly.
	RelPath string

	// Name is the final path component.
	Name string

	// Size in bytes, as reported by lstat.
	Size int64

	// Permissions holds the mode bits covered by PermMask.
	Permissions uint32

	// Owner is the owning user name, best effort ("" when unavailable).
	Owner string

	// Modified is the last modification time.
	Modified time.Time

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// IsSymlink reports whether the entry itself is a symbolic link.
	IsSymlink bool
}

// FromPath builds an Entry from a filesystem metadata read. The entry is
// lstat-based: symlinks describe the link itself, so broken links still
// produce an entry.
func FromPath(path string) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Path:        abs,
		RelPath:     filepath.Base(abs),
		Name:        filepath.Base(abs),
		Size:        info.Size(),
		Permissions: uint32(info.Mode() & os.FileMode(PermMask)),
		Owner:       lookupOwner(info),
		Modified:    info.ModTime(),
		IsDir:       info.IsDir(),
		IsSymlink:   info.Mode()&os.ModeSymlink != 0,
	}, nil
}

// Extension returns the lower-cased extension without the leading dot,
// or "" when the name has none. Dotfiles like ".bashrc" have no extension.
func (e *Entry) Extension() string {
	ext := filepath.Ext(e.Name)
	if ext == "" || ext == e.Name {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsExecutable reports whether any execute bit is set.
func (e *Entry) IsExecutable() bool {
	return e.Permissions&0o111 != 0
}

// IsHidden reports whether the name starts with a dot.
func (e *Entry) IsHidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// SetPermissions replaces the snapshot's permission bits. Called after a
// successful mutation so emitted results reflect post-mutation state
// without another metadata read.
func (e *Entry) SetPermissions(perm uint32) {
	e.Permissions = perm & PermMask
}

// OctalPermissions returns the permission bits as an octal string, e.g.
// "755".
func (e *Entry) OctalPermissions() string {
	return fmt.Sprintf("%o", e.Permissions)
}

// SymbolicPermissions renders the permission bits in ls style, e.g.
// "rwxr-xr-x".
func (e *Entry) SymbolicPermissions() string {
	var b strings.Builder
	b.Grow(9)
	for shift := 6; shift >= 0; shift -= 3 {
		bits := e.Permissions >> uint(shift)
		writeFlag(&b, bits&0o4 != 0, 'r')
		writeFlag(&b, bits&0o2 != 0, 'w')
		writeFlag(&b, bits&0o1 != 0, 'x')
	}
	return b.String()
}

func writeFlag(b *strings.Builder, set bool, c byte) {
	if set {
		b.WriteByte(c)
	} else {
		b.WriteByte('-')
	}
}
