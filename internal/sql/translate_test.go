package sql

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fmql/fmql/internal/assemble"
)

func mustTranslate(t *testing.T, input string) *Query {
	t.Helper()
	q, err := Translate(input)
	if err != nil {
		t.Fatalf("Translate(%q): %v", input, err)
	}
	return q
}

func wantTranslationError(t *testing.T, input, fragment string) {
	t.Helper()
	_, err := Translate(input)
	var te *TranslationError
	if !errors.As(err, &te) {
		t.Fatalf("Translate(%q) = %v, want TranslationError", input, err)
	}
	if !strings.Contains(te.Error(), fragment) {
		t.Errorf("Translate(%q) error %q does not mention %q", input, te.Error(), fragment)
	}
}

func TestTranslateBasicSelect(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /var/log")
	if q.Operation != OpSelect {
		t.Errorf("operation = %v, want SELECT", q.Operation)
	}
	if q.From != "/var/log" {
		t.Errorf("from = %q, want /var/log", q.From)
	}
	if q.Recursive {
		t.Error("plain SELECT should not be recursive")
	}
	if q.Where != nil || q.OrderBy != nil || q.GroupBy != nil {
		t.Error("clauses should be nil when absent")
	}
}

func TestTranslateRecursivePrefix(t *testing.T) {
	q := mustTranslate(t, "WITH RECURSIVE SELECT * FROM /tmp")
	if !q.Recursive {
		t.Error("WITH RECURSIVE should mark the query recursive")
	}
}

func TestTranslateHomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	q := mustTranslate(t, "SELECT * FROM ~/docs")
	if q.From != filepath.Join(home, "docs") {
		t.Errorf("from = %q, want %q", q.From, filepath.Join(home, "docs"))
	}
}

func TestTranslateComparisonOperators(t *testing.T) {
	cases := []struct {
		clause string
		op     CompareOp
	}{
		{"size = 10", OpEq},
		{"size != 10", OpNe},
		{"size <> 10", OpNe},
		{"size < 10", OpLt},
		{"size > 10", OpGt},
		{"size <= 10", OpLe},
		{"size >= 10", OpGe},
	}
	for _, tc := range cases {
		q := mustTranslate(t, "SELECT * FROM /tmp WHERE "+tc.clause)
		cmp, ok := q.Where.(*Comparison)
		if !ok {
			t.Fatalf("%s: predicate = %T, want *Comparison", tc.clause, q.Where)
		}
		if cmp.Op != tc.op {
			t.Errorf("%s: op = %v, want %v", tc.clause, cmp.Op, tc.op)
		}
		if cmp.Value.Int != 10 {
			t.Errorf("%s: value = %d, want 10", tc.clause, cmp.Value.Int)
		}
	}
}

func TestTranslateBooleanPredicates(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp WHERE is_directory = true AND is_hidden = false")
	and, ok := q.Where.(*And)
	if !ok {
		t.Fatalf("predicate = %T, want *And", q.Where)
	}
	left := and.Left.(*Comparison)
	if left.Attr.Name != "is_directory" || !left.Value.Bool {
		t.Errorf("left = %s %v", left.Attr.Name, left.Value.Bool)
	}
	right := and.Right.(*Comparison)
	if right.Attr.Name != "is_hidden" || right.Value.Bool {
		t.Errorf("right = %s %v", right.Attr.Name, right.Value.Bool)
	}
}

func TestTranslateBooleanOrderingRejected(t *testing.T) {
	wantTranslationError(t, "SELECT * FROM /tmp WHERE is_directory > true", "is_directory")
}

func TestTranslateNestedLogic(t *testing.T) {
	q := mustTranslate(t,
		"SELECT * FROM /tmp WHERE NOT (extension = 'log' OR size > 100)")
	not, ok := q.Where.(*Not)
	if !ok {
		t.Fatalf("predicate = %T, want *Not", q.Where)
	}
	if _, ok := not.Inner.(*Or); !ok {
		t.Fatalf("inner = %T, want *Or", not.Inner)
	}
}

func TestTranslateBetweenDesugars(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp WHERE size BETWEEN 10 AND 20")
	and, ok := q.Where.(*And)
	if !ok {
		t.Fatalf("predicate = %T, want *And", q.Where)
	}
	lo := and.Left.(*Comparison)
	hi := and.Right.(*Comparison)
	if lo.Op != OpGe || lo.Value.Int != 10 {
		t.Errorf("low bound = %v %d, want >= 10", lo.Op, lo.Value.Int)
	}
	if hi.Op != OpLe || hi.Value.Int != 20 {
		t.Errorf("high bound = %v %d, want <= 20", hi.Op, hi.Value.Int)
	}

	q = mustTranslate(t, "SELECT * FROM /tmp WHERE size NOT BETWEEN 10 AND 20")
	if _, ok := q.Where.(*Not); !ok {
		t.Errorf("NOT BETWEEN predicate = %T, want *Not", q.Where)
	}
}

func TestTranslateLike(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp WHERE name LIKE '%cat%'")
	like, ok := q.Where.(*Like)
	if !ok {
		t.Fatalf("predicate = %T, want *Like", q.Where)
	}
	if like.Pattern != "%cat%" || like.re == nil {
		t.Errorf("like = %+v, want compiled %%cat%%", like)
	}

	q = mustTranslate(t, "SELECT * FROM /tmp WHERE name NOT LIKE '%cat%'")
	if _, ok := q.Where.(*Not); !ok {
		t.Errorf("NOT LIKE predicate = %T, want *Not", q.Where)
	}

	wantTranslationError(t, "SELECT * FROM /tmp WHERE size LIKE '1%'", "string")
}

func TestTranslateLikeEscapedWildcards(t *testing.T) {
	// The lexer must not swallow the backslash on its way to translation:
	// an escaped % is a literal %, not the any-sequence wildcard.
	q := mustTranslate(t, `SELECT * FROM /tmp WHERE name LIKE '100\%'`)
	like, ok := q.Where.(*Like)
	if !ok {
		t.Fatalf("predicate = %T, want *Like", q.Where)
	}
	if like.Pattern != `100\%` {
		t.Fatalf("pattern = %q, want the backslash preserved", like.Pattern)
	}
	if !like.Match(namedEntry("100%")) {
		t.Error("escaped %% should match a literal %% in the name")
	}
	if like.Match(namedEntry("100xyz")) {
		t.Error("escaped %% must not act as the any-sequence wildcard")
	}

	q = mustTranslate(t, `SELECT * FROM /tmp WHERE name LIKE 'a\_b'`)
	like = q.Where.(*Like)
	if !like.Match(namedEntry("a_b")) {
		t.Error("escaped _ should match a literal _")
	}
	if like.Match(namedEntry("axb")) {
		t.Error("escaped _ must not act as the single-character wildcard")
	}
}

func TestTranslateRegexp(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp WHERE name REGEXP '^ab.*c$'")
	re, ok := q.Where.(*Regexp)
	if !ok {
		t.Fatalf("predicate = %T, want *Regexp", q.Where)
	}
	if re.Pattern != "^ab.*c$" {
		t.Errorf("pattern = %q", re.Pattern)
	}

	wantTranslationError(t, "SELECT * FROM /tmp WHERE name REGEXP '[unclosed'", "invalid pattern")
}

func TestTranslateRegexpKeepsCharClasses(t *testing.T) {
	q := mustTranslate(t, `SELECT * FROM /tmp WHERE name REGEXP '^\d{3}'`)
	re, ok := q.Where.(*Regexp)
	if !ok {
		t.Fatalf("predicate = %T, want *Regexp", q.Where)
	}
	if re.Pattern != `^\d{3}` {
		t.Fatalf("pattern = %q, want the backslash preserved", re.Pattern)
	}
	if !re.Match(namedEntry("123-report")) {
		t.Error(`\d class should match digits`)
	}
	if re.Match(namedEntry("12-report")) {
		t.Error(`\d{3} must not match two digits`)
	}
}

func TestTranslatePermissionsOctal(t *testing.T) {
	for _, clause := range []string{"permissions = '755'", "permissions = 755"} {
		q := mustTranslate(t, "SELECT * FROM /tmp WHERE "+clause)
		cmp := q.Where.(*Comparison)
		if cmp.Value.Int != 0o755 {
			t.Errorf("%s: value = %o, want 755 octal", clause, cmp.Value.Int)
		}
	}
	wantTranslationError(t, "SELECT * FROM /tmp WHERE permissions = '999'", "octal")
}

func TestTranslateTimestampLiterals(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp WHERE modified > '2024-01-15'")
	cmp := q.Where.(*Comparison)
	if !cmp.Value.DateOnly {
		t.Error("date-only literal should compare at day precision")
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	if !cmp.Value.Time.Equal(want) {
		t.Errorf("time = %v, want %v", cmp.Value.Time, want)
	}

	q = mustTranslate(t, "SELECT * FROM /tmp WHERE modified > '2024-01-15 10:30:00'")
	cmp = q.Where.(*Comparison)
	if cmp.Value.DateOnly || cmp.Value.Time.Hour() != 10 {
		t.Errorf("timestamp literal parsed wrong: %+v", cmp.Value)
	}

	wantTranslationError(t, "SELECT * FROM /tmp WHERE modified > 'yesterday'", "timestamp")
}

func TestTranslateUnknownAttribute(t *testing.T) {
	wantTranslationError(t, "SELECT * FROM /tmp WHERE color = 'red'", "known attributes")
}

func TestTranslateAttributeMustBeOnLeft(t *testing.T) {
	wantTranslationError(t, "SELECT * FROM /tmp WHERE 10 < size", "attribute name")
}

func TestTranslateOrderBy(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp ORDER BY size DESC")
	if q.OrderBy == nil || q.OrderBy.Attr.Name != "size" || !q.OrderBy.Descending {
		t.Errorf("order by = %+v, want size descending", q.OrderBy)
	}

	q = mustTranslate(t, "SELECT * FROM /tmp ORDER BY modified")
	if q.OrderBy == nil || q.OrderBy.Attr.Name != "modified" || q.OrderBy.Descending {
		t.Errorf("order by = %+v, want modified ascending", q.OrderBy)
	}

	wantTranslationError(t, "SELECT * FROM /tmp ORDER BY size, name", "one ordering")
}

func TestTranslateGroupBy(t *testing.T) {
	q := mustTranslate(t, "SELECT * FROM /tmp GROUP BY extension")
	if q.GroupBy == nil || q.GroupBy.Key != assemble.GroupExtension {
		t.Errorf("group by = %+v, want extension", q.GroupBy)
	}

	q = mustTranslate(t, "SELECT * FROM /tmp GROUP BY name_starts_with('test')")
	if q.GroupBy == nil || q.GroupBy.Key != assemble.GroupNameStartsWith || q.GroupBy.Pattern != "test" {
		t.Errorf("group by = %+v, want name_starts_with test", q.GroupBy)
	}

	wantTranslationError(t, "SELECT * FROM /tmp GROUP BY owner", "known keys")
	wantTranslationError(t, "SELECT * FROM /tmp GROUP BY name_starts_with()", "pattern")
}

func TestTranslateRejectsUnsupportedClauses(t *testing.T) {
	wantTranslationError(t, "SELECT name FROM /tmp", "SELECT *")
	wantTranslationError(t, "SELECT DISTINCT * FROM /tmp", "DISTINCT")
	wantTranslationError(t, "SELECT * FROM /tmp LIMIT 5", "LIMIT")
	wantTranslationError(t, "DELETE FROM files", "SELECT and UPDATE")
}

func TestTranslateSyntaxError(t *testing.T) {
	_, err := Translate("SELEC * FORM /tmp")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SyntaxError", err)
	}
}

func TestTranslateUpdate(t *testing.T) {
	q := mustTranslate(t, "UPDATE /tmp/scripts SET permissions = '755' WHERE extension = 'sh'")
	if q.Operation != OpUpdate {
		t.Fatalf("operation = %v, want UPDATE", q.Operation)
	}
	if !q.Recursive {
		t.Error("updates always sweep recursively")
	}
	if len(q.Assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(q.Assignments))
	}
	a := q.Assignments[0]
	if a.Attr != "permissions" || a.Value.Int != 0o755 {
		t.Errorf("assignment = %+v, want permissions 755", a)
	}
	if q.Where == nil {
		t.Error("WHERE clause lost in translation")
	}
}

func TestTranslateUpdateRejectsOwner(t *testing.T) {
	wantTranslationError(t, "UPDATE /tmp SET owner = 'root'", "not supported")
}

func TestTranslateUpdateRejectsImmutableAttributes(t *testing.T) {
	wantTranslationError(t, "UPDATE /tmp SET size = 0", "cannot be updated")
	wantTranslationError(t, "UPDATE /tmp SET color = 'red'", "known attributes")
}

func TestLikeToRegexp(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"%cat%", "(?i)^.*cat.*$"},
		{"_at", "(?i)^.at$"},
		{`100\%`, "(?i)^100%$"},
		{`a\_b`, "(?i)^a_b$"},
		{"a.b", `(?i)^a\.b$`},
	}
	for _, tc := range cases {
		if got := likeToRegexp(tc.pattern); got != tc.want {
			t.Errorf("likeToRegexp(%q) = %q, want %q", tc.pattern, got, tc.want)
		}
	}
}
