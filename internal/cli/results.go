package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/fmql/fmql/internal/assemble"
	"github.com/fmql/fmql/internal/file"
	"github.com/fmql/fmql/internal/sql"
	"github.com/fmql/fmql/internal/ui"
)

// entryView is the serializable projection of one entry.
type entryView struct {
	Path        string `json:"path" yaml:"path"`
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size" yaml:"size"`
	IsDirectory bool   `json:"is_directory" yaml:"is_directory"`
	Extension   string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Permissions string `json:"permissions" yaml:"permissions"`
	Mode        string `json:"mode" yaml:"mode"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Modified    string `json:"modified" yaml:"modified"`
}

// groupView is the serializable projection of one result group.
type groupView struct {
	Name      string `json:"name" yaml:"name"`
	Files     int    `json:"files" yaml:"files"`
	Dirs      int    `json:"dirs" yaml:"dirs"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
}

// outcomeView reports one attempted mutation.
type outcomeView struct {
	Path  string `json:"path" yaml:"path"`
	OK    bool   `json:"ok" yaml:"ok"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newEntryView(e *file.Entry) entryView {
	return entryView{
		Path:        e.Path,
		Name:        e.Name,
		Size:        e.Size,
		IsDirectory: e.IsDir,
		Extension:   e.Extension(),
		Permissions: e.OctalPermissions(),
		Mode:        e.SymbolicPermissions(),
		Owner:       e.Owner,
		Modified:    e.Modified.Format(time.RFC3339),
	}
}

func entryViews(entries []*file.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEntryView(e))
	}
	return views
}

func groupViews(groups []assemble.Group) []groupView {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, groupView{
			Name:      g.Name,
			Files:     g.Files,
			Dirs:      g.Dirs,
			TotalSize: g.TotalSize,
		})
	}
	return views
}

func outcomeViews(outcomes []sql.UpdateOutcome) []outcomeView {
	views := make([]outcomeView, 0, len(outcomes))
	for _, o := range outcomes {
		v := outcomeView{Path: o.Entry.Path, OK: o.Err == nil}
		if o.Err != nil {
			v.Error = o.Err.Error()
		}
		views = append(views, v)
	}
	return views
}

func skipWarnings(skipped []file.WalkError) []Warning {
	warnings := make([]Warning, 0, len(skipped))
	for _, s := range skipped {
		warnings = append(warnings, Warning{
			Code:    WarnEntrySkipped,
			Message: s.Err.Error(),
			Path:    s.Path,
		})
	}
	return warnings
}

// displayName renders an entry name with the trailing slash directory
// marker.
func displayName(e *file.Entry) string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// humanSize renders a byte count compactly; directories show a dash.
func humanSize(e *file.Entry) string {
	if e.IsDir {
		return "-"
	}
	return humanize.Bytes(uint64(e.Size))
}

const modifiedLayout = "2006-01-02 15:04"

// renderEntriesLong prints one aligned row per entry:
// mode owner size modified name.
func renderEntriesLong(entries []*file.Entry, withPath bool) {
	table := ui.NewTable(5)
	table.SetHeader("mode", "owner", "size", "modified", "name")
	for _, e := range entries {
		name := displayName(e)
		if withPath {
			name = e.Path
		}
		table.AddRow(
			e.SymbolicPermissions(),
			e.Owner,
			humanSize(e),
			e.Modified.Format(modifiedLayout),
			name,
		)
	}
	fmt.Print(table.String())
}

// renderEntriesTable prints entries through the width-aware table
// renderer.
func renderEntriesTable(entries []*file.Entry, withPath bool) {
	display := ui.NewDisplayContext()
	table := ui.NewEntryTable(display, ui.EntryLayout)
	for i, e := range entries {
		name := displayName(e)
		if withPath {
			name = e.Path
		}
		table.AddRow(
			ui.FormatRowNum(i+1, len(entries)),
			e.SymbolicPermissions(),
			e.Owner,
			humanSize(e),
			e.Modified.Format(modifiedLayout),
			name,
		)
	}
	fmt.Println(table.Render())
}

// renderGroupsText prints group aggregates as aligned rows.
func renderGroupsText(groups []assemble.Group) {
	table := ui.NewTable(4)
	table.SetHeader("group", "files", "dirs", "total")
	for _, g := range groups {
		table.AddRow(
			g.Name,
			fmt.Sprintf("%d", g.Files),
			fmt.Sprintf("%d", g.Dirs),
			humanize.Bytes(uint64(g.TotalSize)),
		)
	}
	fmt.Print(table.String())
}

// renderGroupsTable prints group aggregates through the table renderer.
func renderGroupsTable(groups []assemble.Group) {
	display := ui.NewDisplayContext()
	table := ui.NewEntryTable(display, ui.GroupLayout)
	for _, g := range groups {
		table.AddRow(
			g.Name,
			fmt.Sprintf("%d", g.Files),
			fmt.Sprintf("%d", g.Dirs),
			humanize.Bytes(uint64(g.TotalSize)),
		)
	}
	fmt.Println(table.Render())
}

// renderOutcomesText prints one status line per attempted mutation.
func renderOutcomesText(outcomes []sql.UpdateOutcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Println(ui.Errorf("%s: %v", o.Entry.Path, o.Err))
			continue
		}
		fmt.Println(ui.Successf("%s %s", o.Entry.Path, ui.Hint(o.Entry.SymbolicPermissions())))
	}
}

// renderSkipped reports unreadable entries to stderr in text modes.
func renderSkipped(skipped []file.WalkError) {
	for _, s := range skipped {
		fmt.Fprintln(os.Stderr, ui.Warningf("skipped %s: %v", s.Path, s.Err))
	}
}

// outputYAML marshals data to stdout as YAML.
func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
