// Package paths resolves the FROM target of a query into concrete
// filesystem roots: `~` expansion and glob expansion, performed once
// before any traversal.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandHome replaces a leading `~` or `~/` with the current user's home
// directory. Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// IsGlob reports whether the path contains glob metacharacters.
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Glob expands a glob pattern into matching paths, sorted by the
// filesystem's directory order. Supports `**` in addition to the usual
// `*`, `?`, `[...]`, `{a,b}` forms.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return matches, nil
}

// MatchName reports whether a base name matches a glob pattern, e.g.
// "*.txt". A malformed pattern matches nothing.
func MatchName(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
