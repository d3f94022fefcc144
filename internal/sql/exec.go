package sql

import (
	"fmt"
	"os"

	"github.com/fmql/fmql/internal/assemble"
	"github.com/fmql/fmql/internal/file"
	"github.com/fmql/fmql/internal/paths"
)

// Options tune execution beyond what the query text carries.
type Options struct {
	// IncludeHidden visits dotfiles and descends into dot directories.
	IncludeHidden bool
}

// UpdateOutcome reports one attempted mutation. Err is nil on success.
type UpdateOutcome struct {
	Entry *file.Entry
	Err   error
}

// Result is the assembled outcome of one query.
type Result struct {
	// Entries is the ordered result set. For an UPDATE these are the
	// matched entries with post-mutation metadata.
	Entries []*file.Entry

	// Groups is populated instead of read directly from Entries when the
	// query grouped; Entries still carries the flat ordered set.
	Groups []assemble.Group

	// Outcomes records per-entry mutation results, in result order.
	// Empty for SELECT.
	Outcomes []UpdateOutcome

	// Skipped lists entries the traversal could not read.
	Skipped []file.WalkError
}

// Execute runs a translated query against the filesystem.
func Execute(q *Query, opts Options) (*Result, error) {
	walker := file.NewWalker(file.WalkOptions{
		Recursive:     q.Recursive,
		IncludeHidden: opts.IncludeHidden,
	})

	entries, err := discover(q, walker)
	if err != nil {
		return nil, err
	}

	matched := entries[:0]
	for _, e := range entries {
		if q.Where == nil || q.Where.Match(e) {
			matched = append(matched, e)
		}
	}

	if q.OrderBy != nil {
		assemble.Sort(matched, q.OrderBy.Attr, q.OrderBy.Descending)
	} else {
		assemble.SortByName(matched)
	}

	result := &Result{
		Entries: matched,
		Skipped: walker.Skipped(),
	}

	// Zero matches is a valid, empty result for both operations.
	if q.Operation == OpUpdate {
		result.Outcomes = mutate(matched, q.Assignments)
	}

	if q.GroupBy != nil {
		groups, err := assemble.GroupEntries(matched, *q.GroupBy)
		if err != nil {
			return nil, &TranslationError{Construct: "GROUP BY", Message: err.Error()}
		}
		result.Groups = groups
	}
	return result, nil
}

// discover resolves the FROM target into roots and collects their entries.
// A glob may match plain files; those become entries directly, while each
// matched directory is walked.
func discover(q *Query, walker *file.Walker) ([]*file.Entry, error) {
	var entries []*file.Entry
	collect := func(e *file.Entry) { entries = append(entries, e) }

	if !paths.IsGlob(q.From) {
		if err := walkRoot(q.From, walker, collect); err != nil {
			return nil, err
		}
		return entries, nil
	}

	matches, err := paths.Glob(q.From)
	if err != nil {
		return nil, &ResolutionError{Target: q.From, Message: err.Error()}
	}
	if len(matches) == 0 {
		return nil, &ResolutionError{Target: q.From, Message: "no matches"}
	}

	for _, match := range matches {
		info, err := os.Lstat(match)
		if err != nil {
			return nil, &ResolutionError{Target: match, Message: err.Error()}
		}
		if !info.IsDir() {
			entry, err := file.FromPath(match)
			if err != nil {
				return nil, &ResolutionError{Target: match, Message: err.Error()}
			}
			collect(entry)
			continue
		}
		if err := walker.Walk(match, collect); err != nil {
			return nil, &ResolutionError{Target: match, Message: err.Error()}
		}
	}
	return entries, nil
}

func walkRoot(root string, walker *file.Walker, collect func(*file.Entry)) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return &ResolutionError{Target: root, Message: "no such directory"}
		}
		return &ResolutionError{Target: root, Message: err.Error()}
	}
	if !info.IsDir() {
		return &ResolutionError{Target: root, Message: "not a directory"}
	}
	if err := walker.Walk(root, collect); err != nil {
		return &ResolutionError{Target: root, Message: err.Error()}
	}
	return nil
}

// mutate applies the assignments to each matched entry in result order.
// A failure on one entry does not stop the sweep; successful entries have
// their snapshot refreshed so output reflects the new state.
func mutate(entries []*file.Entry, assignments []Assignment) []UpdateOutcome {
	outcomes := make([]UpdateOutcome, 0, len(entries))
	for _, e := range entries {
		outcome := UpdateOutcome{Entry: e}
		for _, a := range assignments {
			if err := apply(e, a); err != nil {
				outcome.Err = err
				break
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func apply(e *file.Entry, a Assignment) error {
	switch a.Attr {
	case "permissions":
		perm := uint32(a.Value.Int)
		if err := os.Chmod(e.Path, os.FileMode(perm)); err != nil {
			return err
		}
		e.SetPermissions(perm)
		return nil
	}
	// Translation only admits mutable attributes; anything else here is
	// a programming error.
	return fmt.Errorf("attribute %s cannot be updated", a.Attr)
}
