package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmql/fmql/internal/sql"
	"github.com/fmql/fmql/internal/ui"
)

var sqlHidden bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a SQL query against the filesystem",
	Long: `Run a SELECT or UPDATE statement against the filesystem.

The FROM clause names a directory, a ~ path, or a glob. WHERE predicates
compare entry attributes (name, path, extension, size, permissions, owner,
modified, is_directory, is_executable, is_hidden) and support LIKE, REGEXP,
BETWEEN, AND, OR, and NOT. Prefix with WITH RECURSIVE to descend into
subdirectories. UPDATE changes permission bits and always sweeps the whole
subtree.

Examples:
  fmql sql "SELECT * FROM ~/Downloads WHERE size > 1000000"
  fmql sql "WITH RECURSIVE SELECT * FROM . WHERE name LIKE '%.log' ORDER BY size DESC"
  fmql sql "SELECT * FROM /var/log GROUP BY extension"
  fmql sql "UPDATE ./scripts SET permissions = '755' WHERE extension = 'sh'"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := sql.Translate(args[0])
		if err != nil {
			return handleQueryError(err)
		}

		includeHidden := getConfig().ShowHidden
		if cmd.Flags().Changed("hidden") {
			includeHidden = sqlHidden
		}

		start := time.Now()
		result, err := sql.Execute(query, sql.Options{IncludeHidden: includeHidden})
		if err != nil {
			return handleQueryError(err)
		}
		elapsed := time.Since(start)

		switch outputFormat() {
		case formatJSON:
			return outputSQLJSON(query, result, elapsed)
		case formatYAML:
			return outputSQLYAML(query, result)
		case formatTable:
			return outputSQLTable(query, result)
		default:
			return outputSQLText(query, result)
		}
	},
}

// handleQueryError maps the engine's error taxonomy onto stable codes.
func handleQueryError(err error) error {
	var (
		syntaxErr      *sql.SyntaxError
		translationErr *sql.TranslationError
		resolutionErr  *sql.ResolutionError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return handleError(ErrQuerySyntax, err, "Check the statement against 'fmql docs queries'")
	case errors.As(err, &translationErr):
		return handleError(ErrQueryTranslation, err, "")
	case errors.As(err, &resolutionErr):
		return handleError(ErrPathResolution, err, "The FROM clause must name an existing directory or a glob with matches")
	}
	return handleError(ErrInternal, err, "")
}

type sqlResultView struct {
	Entries  []entryView   `json:"entries" yaml:"entries"`
	Groups   []groupView   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Outcomes []outcomeView `json:"updates,omitempty" yaml:"updates,omitempty"`
}

func newSQLResultView(result *sql.Result) sqlResultView {
	view := sqlResultView{Entries: entryViews(result.Entries)}
	if len(result.Groups) > 0 {
		view.Groups = groupViews(result.Groups)
	}
	if len(result.Outcomes) > 0 {
		view.Outcomes = outcomeViews(result.Outcomes)
	}
	return view
}

func outputSQLJSON(query *sql.Query, result *sql.Result, elapsed time.Duration) error {
	warnings := skipWarnings(result.Skipped)
	for _, o := range result.Outcomes {
		if o.Err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnUpdateFailed,
				Message: o.Err.Error(),
				Path:    o.Entry.Path,
			})
		}
	}
	outputSuccessWithWarnings(newSQLResultView(result), warnings, &Meta{
		Count:       len(result.Entries),
		QueryTimeMs: elapsed.Milliseconds(),
	})
	return nil
}

func outputSQLYAML(query *sql.Query, result *sql.Result) error {
	renderSkipped(result.Skipped)
	return outputYAML(newSQLResultView(result))
}

func outputSQLTable(query *sql.Query, result *sql.Result) error {
	renderSkipped(result.Skipped)
	if query.Operation == sql.OpUpdate {
		renderOutcomesText(result.Outcomes)
		return nil
	}
	if len(result.Entries) == 0 {
		fmt.Println(ui.Hint("no matches"))
		return nil
	}
	if query.GroupBy != nil {
		renderGroupsTable(result.Groups)
		return nil
	}
	renderEntriesTable(result.Entries, true)
	return nil
}

func outputSQLText(query *sql.Query, result *sql.Result) error {
	renderSkipped(result.Skipped)

	if query.Operation == sql.OpUpdate {
		renderOutcomesText(result.Outcomes)
		fmt.Println(ui.Hint(fmt.Sprintf("updated %d of %d", countUpdated(result), len(result.Outcomes))))
		return nil
	}

	if len(result.Entries) == 0 {
		fmt.Println(ui.Hint("no matches"))
		return nil
	}

	if query.GroupBy != nil {
		renderGroupsText(result.Groups)
		return nil
	}

	for _, e := range result.Entries {
		fmt.Printf("%s  %s\n", ui.FilePath(e.Path), ui.Hint(humanSize(e)))
	}
	fmt.Println(ui.Hint(ui.Count(len(result.Entries), "entry", "entries")))
	return nil
}

func countUpdated(result *sql.Result) int {
	n := 0
	for _, o := range result.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlHidden, "hidden", false, "Include hidden (dot) entries")
	rootCmd.AddCommand(sqlCmd)
}
