package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fmql/fmql/internal/assemble"
	"github.com/fmql/fmql/internal/file"
	"github.com/fmql/fmql/internal/paths"
	"github.com/fmql/fmql/internal/ui"
)

var (
	listAll       bool
	listLong      bool
	listRecursive bool
	listSort      string
	listGroupBy   string
	listPattern   string
	listTotal     bool
)

// listSortAttrs maps --sort values onto entry attributes.
var listSortAttrs = map[string]string{
	"name":     "name",
	"size":     "size",
	"modified": "modified",
	"type":     "extension",
}

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List directory contents without writing SQL",
	Long: `List the entries of a directory. This is the flag-driven twin of
'fmql sql': the same traversal, filtering, sorting, and grouping without
a query string.

Group keys for --group-by: folder, all_folders, extension, permissions,
executable, name_starts_with:<pat>, name_contains:<pat>, name_ends_with:<pat>.

Examples:
  fmql list ~/Downloads -l --sort size
  fmql list . -r --pattern '*.go' --total
  fmql list /var/log --group-by extension`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		root, err := paths.ExpandHome(target)
		if err != nil {
			return handleError(ErrPathResolution, err, "")
		}
		info, err := os.Stat(root)
		if err != nil {
			return handleError(ErrPathResolution, fmt.Errorf("cannot list %s: %w", root, err), "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrPathResolution, fmt.Sprintf("%s is not a directory", root), "")
		}

		includeHidden := listAll || getConfig().ShowHidden
		walker := file.NewWalker(file.WalkOptions{
			Recursive:     listRecursive,
			IncludeHidden: includeHidden,
		})

		var entries []*file.Entry
		err = walker.Walk(root, func(e *file.Entry) {
			if listPattern != "" && !paths.MatchName(listPattern, e.Name) {
				return
			}
			entries = append(entries, e)
		})
		if err != nil {
			return handleError(ErrPathResolution, err, "")
		}

		if err := sortListing(entries); err != nil {
			return handleErrorMsg(ErrInvalidInput, err.Error(), "")
		}

		if listGroupBy != "" {
			spec, err := parseListGroup(listGroupBy)
			if err != nil {
				return handleErrorMsg(ErrInvalidInput, err.Error(), "")
			}
			groups, err := assemble.GroupEntries(entries, spec)
			if err != nil {
				return handleErrorMsg(ErrInvalidInput, err.Error(), "")
			}
			return outputListGroups(groups, walker.Skipped())
		}

		return outputListEntries(entries, walker.Skipped())
	},
}

func sortListing(entries []*file.Entry) error {
	attrName, ok := listSortAttrs[strings.ToLower(listSort)]
	if !ok {
		return fmt.Errorf("unknown sort key %q (expected name, size, modified, or type)", listSort)
	}
	if attrName == "name" {
		assemble.SortByName(entries)
		return nil
	}
	attr, ok := file.LookupAttr(attrName)
	if !ok {
		return fmt.Errorf("unknown sort key %q", listSort)
	}
	// Size and recency listings read best largest and newest first.
	assemble.Sort(entries, attr, attrName == "size" || attrName == "modified")
	return nil
}

// parseListGroup splits the optional ":pattern" suffix off a group key,
// e.g. "name_starts_with:test".
func parseListGroup(value string) (assemble.GroupSpec, error) {
	name, pattern, _ := strings.Cut(value, ":")
	key, ok := assemble.ParseGroupKey(name)
	if !ok {
		return assemble.GroupSpec{}, fmt.Errorf("unknown group key %q (expected one of: %s)",
			name, strings.Join(assemble.GroupKeyNames(), ", "))
	}
	spec := assemble.GroupSpec{Key: key, Pattern: pattern}
	if err := spec.Validate(); err != nil {
		return assemble.GroupSpec{}, err
	}
	return spec, nil
}

func outputListEntries(entries []*file.Entry, skipped []file.WalkError) error {
	switch outputFormat() {
	case formatJSON:
		outputSuccessWithWarnings(
			struct {
				Entries []entryView `json:"entries"`
			}{entryViews(entries)},
			skipWarnings(skipped),
			&Meta{Count: len(entries)},
		)
		return nil
	case formatYAML:
		renderSkipped(skipped)
		return outputYAML(struct {
			Entries []entryView `yaml:"entries"`
		}{entryViews(entries)})
	case formatTable:
		renderSkipped(skipped)
		renderEntriesTable(entries, listRecursive)
		printListTotal(entries)
		return nil
	default:
		renderSkipped(skipped)
		if listLong {
			renderEntriesLong(entries, listRecursive)
		} else {
			for _, e := range entries {
				name := displayName(e)
				if listRecursive {
					name = e.RelPath
					if e.IsDir {
						name += "/"
					}
				}
				if e.IsDir {
					fmt.Println(ui.FilePath(name))
				} else {
					fmt.Println(name)
				}
			}
		}
		printListTotal(entries)
		return nil
	}
}

func outputListGroups(groups []assemble.Group, skipped []file.WalkError) error {
	switch outputFormat() {
	case formatJSON:
		outputSuccessWithWarnings(
			struct {
				Groups []groupView `json:"groups"`
			}{groupViews(groups)},
			skipWarnings(skipped),
			&Meta{Count: len(groups)},
		)
		return nil
	case formatYAML:
		renderSkipped(skipped)
		return outputYAML(struct {
			Groups []groupView `yaml:"groups"`
		}{groupViews(groups)})
	case formatTable:
		renderSkipped(skipped)
		renderGroupsTable(groups)
		return nil
	default:
		renderSkipped(skipped)
		renderGroupsText(groups)
		return nil
	}
}

func printListTotal(entries []*file.Entry) {
	if !listTotal {
		return
	}
	var files, dirs int
	var size int64
	for _, e := range entries {
		if e.IsDir {
			dirs++
			continue
		}
		files++
		size += e.Size
	}
	fmt.Println(ui.Hint(fmt.Sprintf("%d files, %d dirs, %s total",
		files, dirs, humanize.Bytes(uint64(size)))))
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include hidden (dot) entries")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Long listing: mode, owner, size, modified")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "Descend into subdirectories")
	listCmd.Flags().StringVar(&listSort, "sort", "name", "Sort key: name, size, modified, type")
	listCmd.Flags().StringVar(&listGroupBy, "group-by", "", "Group entries by key, e.g. extension or name_contains:draft")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "Keep only names matching a glob, e.g. '*.txt'")
	listCmd.Flags().BoolVar(&listTotal, "total", false, "Print aggregate file, dir, and size counts")
	rootCmd.AddCommand(listCmd)
}
