package file

import "sort"

// Attr is one queryable attribute: a name, the comparable kind of its
// values, and an accessor over an Entry.
//
// The attrs table below is the single source of truth for which columns a
// query may reference. Adding an attribute means adding one table row.
type Attr struct {
	Name string
	Kind Kind

	// Value reads the attribute from an entry snapshot.
	Value func(e *Entry) Value
}

var attrs = map[string]Attr{
	"name": {
		Name:  "name",
		Kind:  KindString,
		Value: func(e *Entry) Value { return StringValue(e.Name) },
	},
	"path": {
		Name:  "path",
		Kind:  KindString,
		Value: func(e *Entry) Value { return StringValue(e.Path) },
	},
	"extension": {
		Name:  "extension",
		Kind:  KindString,
		Value: func(e *Entry) Value { return StringValue(e.Extension()) },
	},
	"size": {
		Name:  "size",
		Kind:  KindInt,
		Value: func(e *Entry) Value { return IntValue(e.Size) },
	},
	"modified": {
		Name:  "modified",
		Kind:  KindTime,
		Value: func(e *Entry) Value { return TimeValue(e.Modified) },
	},
	"permissions": {
		Name:  "permissions",
		Kind:  KindInt,
		Value: func(e *Entry) Value { return IntValue(int64(e.Permissions)) },
	},
	"owner": {
		Name:  "owner",
		Kind:  KindString,
		Value: func(e *Entry) Value { return StringValue(e.Owner) },
	},
	"is_directory": {
		Name:  "is_directory",
		Kind:  KindBool,
		Value: func(e *Entry) Value { return BoolValue(e.IsDir) },
	},
	"is_executable": {
		Name:  "is_executable",
		Kind:  KindBool,
		Value: func(e *Entry) Value { return BoolValue(e.IsExecutable()) },
	},
	"is_hidden": {
		Name:  "is_hidden",
		Kind:  KindBool,
		Value: func(e *Entry) Value { return BoolValue(e.IsHidden()) },
	},
}

// LookupAttr resolves an attribute by its column name.
func LookupAttr(name string) (Attr, bool) {
	a, ok := attrs[name]
	return a, ok
}

// AttrNames returns all attribute names, sorted. Used for error messages.
func AttrNames() []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
