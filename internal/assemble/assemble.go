// Package assemble turns a matched entry sequence into the ordered,
// optionally grouped result set handed to presentation.
package assemble

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/fmql/fmql/internal/file"
)

// Sort orders entries by one attribute using its typed comparison
// semantics. Ties are always broken by name ascending, regardless of
// direction, so output is deterministic.
func Sort(entries []*file.Entry, attr file.Attr, descending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		cmp := file.Compare(attr.Value(entries[i]), attr.Value(entries[j]))
		if cmp != 0 {
			if descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return entries[i].Name < entries[j].Name
	})
}

// SortByName applies the default ordering: name ascending.
func SortByName(entries []*file.Entry) {
	attr, _ := file.LookupAttr("name")
	Sort(entries, attr, false)
}

// GroupKey selects how entries are partitioned for aggregate totals.
type GroupKey int

const (
	// GroupFolder keys each entry by its parent directory, relative to
	// the traversal root ("." for direct children).
	GroupFolder GroupKey = iota
	// GroupAllFolders keys each entry by every ancestor directory below
	// the root, so one entry contributes to several groups.
	GroupAllFolders
	// GroupExtension keys by lower-cased extension.
	GroupExtension
	// GroupPermissions keys by the symbolic permission string.
	GroupPermissions
	// GroupExecutable splits entries by whether an execute bit is set.
	GroupExecutable
	// GroupNameStartsWith splits entries by a case-insensitive name
	// prefix match against the spec pattern.
	GroupNameStartsWith
	// GroupNameContains splits by substring match.
	GroupNameContains
	// GroupNameEndsWith splits by suffix match.
	GroupNameEndsWith
)

func (k GroupKey) String() string {
	switch k {
	case GroupFolder:
		return "folder"
	case GroupAllFolders:
		return "all_folders"
	case GroupExtension:
		return "extension"
	case GroupPermissions:
		return "permissions"
	case GroupExecutable:
		return "executable"
	case GroupNameStartsWith:
		return "name_starts_with"
	case GroupNameContains:
		return "name_contains"
	case GroupNameEndsWith:
		return "name_ends_with"
	}
	return "unknown"
}

// patternKeys require a non-empty Pattern in the GroupSpec.
func (k GroupKey) needsPattern() bool {
	switch k {
	case GroupNameStartsWith, GroupNameContains, GroupNameEndsWith:
		return true
	}
	return false
}

// GroupSpec is a grouping request: the key plus the pattern string the
// three name-based keys match against.
type GroupSpec struct {
	Key     GroupKey
	Pattern string
}

// Validate rejects a spec whose key needs a pattern it does not have.
func (s GroupSpec) Validate() error {
	if s.Key.needsPattern() && s.Pattern == "" {
		return fmt.Errorf("group key %s requires a pattern", s.Key)
	}
	return nil
}

// ParseGroupKey resolves a group key name as it appears in queries and
// listing flags.
func ParseGroupKey(name string) (GroupKey, bool) {
	switch strings.ToLower(name) {
	case "folder":
		return GroupFolder, true
	case "all_folders":
		return GroupAllFolders, true
	case "extension":
		return GroupExtension, true
	case "permissions":
		return GroupPermissions, true
	case "executable":
		return GroupExecutable, true
	case "name_starts_with":
		return GroupNameStartsWith, true
	case "name_contains":
		return GroupNameContains, true
	case "name_ends_with":
		return GroupNameEndsWith, true
	}
	return 0, false
}

// GroupKeyNames lists the accepted group key names for error messages.
func GroupKeyNames() []string {
	return []string{
		"folder", "all_folders", "extension", "permissions", "executable",
		"name_starts_with", "name_contains", "name_ends_with",
	}
}

// Group is one partition of the result set with its aggregate totals.
type Group struct {
	Name      string
	Entries   []*file.Entry
	Files     int
	Dirs      int
	TotalSize int64
}

// GroupEntries partitions an already-sorted entry sequence. Intra-group
// order is preserved; groups themselves are ordered by name ascending.
// With GroupAllFolders an entry appears in the group of each of its
// ancestor directories.
func GroupEntries(entries []*file.Entry, spec GroupSpec) ([]Group, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]*Group)
	var order []string

	add := func(key string, e *file.Entry) {
		g, ok := index[key]
		if !ok {
			g = &Group{Name: key}
			index[key] = g
			order = append(order, key)
		}
		g.Entries = append(g.Entries, e)
		if e.IsDir {
			g.Dirs++
		} else {
			g.Files++
			g.TotalSize += e.Size
		}
	}

	for _, e := range entries {
		for _, key := range groupKeys(e, spec) {
			add(key, e)
		}
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *index[key])
	}
	return groups, nil
}

func groupKeys(e *file.Entry, spec GroupSpec) []string {
	switch spec.Key {
	case GroupFolder:
		return []string{parentFolder(e.RelPath)}
	case GroupAllFolders:
		return ancestorFolders(e.RelPath)
	case GroupExtension:
		if ext := e.Extension(); ext != "" {
			return []string{ext}
		}
		return []string{"no extension"}
	case GroupPermissions:
		return []string{e.SymbolicPermissions()}
	case GroupExecutable:
		if e.IsExecutable() {
			return []string{"executable"}
		}
		return []string{"not executable"}
	default:
		if matchesNamePattern(e.Name, spec) {
			return []string{"matches"}
		}
		return []string{"no match"}
	}
}

func matchesNamePattern(name string, spec GroupSpec) bool {
	n := strings.ToLower(name)
	p := strings.ToLower(spec.Pattern)
	switch spec.Key {
	case GroupNameStartsWith:
		return strings.HasPrefix(n, p)
	case GroupNameContains:
		return strings.Contains(n, p)
	case GroupNameEndsWith:
		return strings.HasSuffix(n, p)
	}
	return false
}

func parentFolder(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "" {
		return "."
	}
	return dir
}

// ancestorFolders returns every directory between the root and the entry,
// nearest last: "a/b/c.txt" contributes ".", "a", "a/b".
func ancestorFolders(relPath string) []string {
	folders := []string{"."}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		folders = append(folders, strings.Join(parts[:i], "/"))
	}
	return folders
}
