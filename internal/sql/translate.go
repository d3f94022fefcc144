package sql

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xwb1989/sqlparser"

	"github.com/fmql/fmql/internal/assemble"
	"github.com/fmql/fmql/internal/file"
	"github.com/fmql/fmql/internal/paths"
)

// Translate turns raw query text into a validated Query. All attribute
// resolution, literal typing, and pattern compilation happens here, so
// execution only walks and matches.
func Translate(input string) (*Query, error) {
	text, recursive := prepare(input)

	stmt, err := sqlparser.Parse(text)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		return translateSelect(s, recursive)
	case *sqlparser.Update:
		// The recursion prefix is redundant here; updates always sweep
		// the whole subtree.
		return translateUpdate(s)
	default:
		return nil, translationErrorf(strings.ToUpper(firstWord(text)),
			"only SELECT and UPDATE statements are supported")
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "statement"
	}
	return fields[0]
}

func translateSelect(stmt *sqlparser.Select, recursive bool) (*Query, error) {
	if stmt.Distinct != "" {
		return nil, translationErrorf("DISTINCT", "entries are already unique per path")
	}
	if stmt.Having != nil {
		return nil, translationErrorf("HAVING", "group filtering is not supported")
	}
	if stmt.Limit != nil {
		return nil, translationErrorf("LIMIT", "result truncation is not supported")
	}
	if err := requireStarProjection(stmt.SelectExprs); err != nil {
		return nil, err
	}

	from, err := tableTarget(stmt.From)
	if err != nil {
		return nil, err
	}

	q := &Query{
		Operation: OpSelect,
		From:      from,
		Recursive: recursive,
	}

	if stmt.Where != nil {
		q.Where, err = translateExpr(stmt.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	q.OrderBy, err = translateOrderBy(stmt.OrderBy)
	if err != nil {
		return nil, err
	}

	q.GroupBy, err = translateGroupBy(stmt.GroupBy)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func translateUpdate(stmt *sqlparser.Update) (*Query, error) {
	if stmt.OrderBy != nil || stmt.Limit != nil {
		return nil, translationErrorf("UPDATE", "ORDER BY and LIMIT do not apply to updates")
	}

	from, err := tableTarget(stmt.TableExprs)
	if err != nil {
		return nil, err
	}

	q := &Query{
		Operation: OpUpdate,
		From:      from,
		// Mutation sweeps the whole subtree; the WHERE clause decides
		// which entries are touched.
		Recursive: true,
	}

	if stmt.Where != nil {
		q.Where, err = translateExpr(stmt.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	for _, expr := range stmt.Exprs {
		assignment, err := translateAssignment(expr)
		if err != nil {
			return nil, err
		}
		q.Assignments = append(q.Assignments, assignment)
	}
	if len(q.Assignments) == 0 {
		return nil, translationErrorf("SET", "an update needs at least one assignment")
	}
	return q, nil
}

// translateAssignment validates one SET clause entry. Permissions is the
// only mutable attribute; ownership changes need privileges the process
// should not assume, and everything else is intrinsic to the entry.
func translateAssignment(expr *sqlparser.UpdateExpr) (Assignment, error) {
	name := expr.Name.Name.Lowered()
	switch name {
	case "permissions":
		raw, err := scalarLiteral(expr.Expr, name)
		if err != nil {
			return Assignment{}, err
		}
		perm, err := parsePermissions(raw)
		if err != nil {
			return Assignment{}, err
		}
		return Assignment{Attr: name, Value: file.IntValue(int64(perm))}, nil
	case "owner":
		return Assignment{}, translationErrorf("SET owner",
			"changing file ownership is not supported")
	}
	if _, ok := file.LookupAttr(name); ok {
		return Assignment{}, translationErrorf("SET "+name,
			"attribute %s cannot be updated", name)
	}
	return Assignment{}, translationErrorf("SET "+name,
		"unknown attribute; known attributes: %s",
		strings.Join(file.AttrNames(), ", "))
}

// requireStarProjection accepts only `SELECT *`. Entries are whole rows;
// projecting columns is a presentation concern, not a query one.
func requireStarProjection(exprs sqlparser.SelectExprs) error {
	if len(exprs) == 1 {
		if _, ok := exprs[0].(*sqlparser.StarExpr); ok {
			return nil
		}
	}
	return translationErrorf("projection",
		"only SELECT * is supported; got %s", sqlparser.String(exprs))
}

// tableTarget extracts the single traversal target and expands `~`.
func tableTarget(exprs sqlparser.TableExprs) (string, error) {
	if len(exprs) != 1 {
		return "", translationErrorf("FROM", "exactly one path is required")
	}
	aliased, ok := exprs[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", translationErrorf("FROM", "joins are not supported")
	}
	table, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", translationErrorf("FROM", "subqueries are not supported")
	}

	raw := table.Name.String()
	if raw == "" {
		return "", translationErrorf("FROM", "empty path")
	}
	expanded, err := paths.ExpandHome(raw)
	if err != nil {
		return "", &ResolutionError{Target: raw, Message: err.Error()}
	}
	return expanded, nil
}

func translateExpr(expr sqlparser.Expr) (Expr, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := translateExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil

	case *sqlparser.OrExpr:
		left, err := translateExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil

	case *sqlparser.NotExpr:
		inner, err := translateExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil

	case *sqlparser.ParenExpr:
		return translateExpr(e.Expr)

	case *sqlparser.ComparisonExpr:
		return translateComparison(e)

	case *sqlparser.RangeCond:
		return translateRange(e)

	default:
		return nil, translationErrorf(sqlparser.String(expr),
			"unsupported WHERE construct")
	}
}

func translateComparison(expr *sqlparser.ComparisonExpr) (Expr, error) {
	attr, err := resolveColumn(expr.Left)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case sqlparser.LikeStr, sqlparser.NotLikeStr:
		return translateLike(attr, expr)
	case sqlparser.RegexpStr, sqlparser.NotRegexpStr:
		return translateRegexp(attr, expr)
	}

	op, ok := compareOps[expr.Operator]
	if !ok {
		return nil, translationErrorf(expr.Operator, "unsupported comparison operator")
	}
	if attr.Kind == file.KindBool && op != OpEq && op != OpNe {
		return nil, translationErrorf(expr.Operator,
			"boolean attribute %s only supports = and !=", attr.Name)
	}

	value, err := literalValue(attr, expr.Right)
	if err != nil {
		return nil, err
	}
	return &Comparison{Attr: attr, Op: op, Value: value}, nil
}

var compareOps = map[string]CompareOp{
	sqlparser.EqualStr:        OpEq,
	sqlparser.NotEqualStr:     OpNe,
	sqlparser.LessThanStr:     OpLt,
	sqlparser.GreaterThanStr:  OpGt,
	sqlparser.LessEqualStr:    OpLe,
	sqlparser.GreaterEqualStr: OpGe,
}

func translateLike(attr file.Attr, expr *sqlparser.ComparisonExpr) (Expr, error) {
	if attr.Kind != file.KindString {
		return nil, translationErrorf("LIKE",
			"attribute %s is %s, LIKE needs a string attribute", attr.Name, attr.Kind)
	}
	pattern, err := stringLiteral(expr.Right, "LIKE")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(likeToRegexp(pattern))
	if err != nil {
		return nil, translationErrorf("LIKE", "invalid pattern %q: %v", pattern, err)
	}
	var match Expr = &Like{Attr: attr, Pattern: pattern, re: re}
	if expr.Operator == sqlparser.NotLikeStr {
		match = &Not{Inner: match}
	}
	return match, nil
}

func translateRegexp(attr file.Attr, expr *sqlparser.ComparisonExpr) (Expr, error) {
	if attr.Kind != file.KindString {
		return nil, translationErrorf("REGEXP",
			"attribute %s is %s, REGEXP needs a string attribute", attr.Name, attr.Kind)
	}
	pattern, err := stringLiteral(expr.Right, "REGEXP")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, translationErrorf("REGEXP", "invalid pattern %q: %v", pattern, err)
	}
	var match Expr = &Regexp{Attr: attr, Pattern: pattern, re: re}
	if expr.Operator == sqlparser.NotRegexpStr {
		match = &Not{Inner: match}
	}
	return match, nil
}

// likeToRegexp compiles a LIKE pattern to an anchored, case-insensitive
// regular expression. `%` matches any run, `_` any single character;
// `\%` and `\_` match the literals.
func likeToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?i)^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern) && (pattern[i+1] == '%' || pattern[i+1] == '_'):
			b.WriteString(regexp.QuoteMeta(string(pattern[i+1])))
			i++
		case c == '%':
			b.WriteString(".*")
		case c == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// translateRange desugars BETWEEN into a conjunction of two inclusive
// comparisons; NOT BETWEEN inverts the conjunction.
func translateRange(expr *sqlparser.RangeCond) (Expr, error) {
	attr, err := resolveColumn(expr.Left)
	if err != nil {
		return nil, err
	}
	if attr.Kind == file.KindBool {
		return nil, translationErrorf("BETWEEN",
			"boolean attribute %s has no range", attr.Name)
	}

	low, err := literalValue(attr, expr.From)
	if err != nil {
		return nil, err
	}
	high, err := literalValue(attr, expr.To)
	if err != nil {
		return nil, err
	}

	var rng Expr = &And{
		Left:  &Comparison{Attr: attr, Op: OpGe, Value: low},
		Right: &Comparison{Attr: attr, Op: OpLe, Value: high},
	}
	if expr.Operator == sqlparser.NotBetweenStr {
		rng = &Not{Inner: rng}
	}
	return rng, nil
}

func resolveColumn(expr sqlparser.Expr) (file.Attr, error) {
	col, ok := expr.(*sqlparser.ColName)
	if !ok {
		return file.Attr{}, translationErrorf(sqlparser.String(expr),
			"the left side of a condition must be an attribute name")
	}
	name := col.Name.Lowered()
	attr, ok := file.LookupAttr(name)
	if !ok {
		return file.Attr{}, translationErrorf(name,
			"unknown attribute; known attributes: %s",
			strings.Join(file.AttrNames(), ", "))
	}
	return attr, nil
}

// literalValue converts a SQL literal into a typed value matching the
// attribute's kind. The permissions attribute reads its literals as
// octal, so `'755'` and the bare integer 755 both mean rwxr-xr-x.
func literalValue(attr file.Attr, expr sqlparser.Expr) (file.Value, error) {
	switch attr.Kind {
	case file.KindString:
		s, err := stringLiteral(expr, attr.Name)
		if err != nil {
			return file.Value{}, err
		}
		return file.StringValue(s), nil

	case file.KindInt:
		raw, err := scalarLiteral(expr, attr.Name)
		if err != nil {
			return file.Value{}, err
		}
		if attr.Name == "permissions" {
			perm, err := parsePermissions(raw)
			if err != nil {
				return file.Value{}, err
			}
			return file.IntValue(int64(perm)), nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return file.Value{}, translationErrorf(attr.Name,
				"%q is not an integer", raw)
		}
		return file.IntValue(n), nil

	case file.KindTime:
		raw, err := stringLiteral(expr, attr.Name)
		if err != nil {
			return file.Value{}, err
		}
		return parseTimeLiteral(attr.Name, raw)

	default:
		return boolLiteral(expr, attr.Name)
	}
}

// scalarLiteral accepts a string or numeric literal and returns its text.
func scalarLiteral(expr sqlparser.Expr, target string) (string, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return "", translationErrorf(target,
			"expected a literal, got %s", sqlparser.String(expr))
	}
	switch val.Type {
	case sqlparser.StrVal, sqlparser.IntVal:
		return string(val.Val), nil
	}
	return "", translationErrorf(target,
		"unsupported literal %s", sqlparser.String(expr))
}

func stringLiteral(expr sqlparser.Expr, target string) (string, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.StrVal {
		return "", translationErrorf(target,
			"expected a quoted string, got %s", sqlparser.String(expr))
	}
	return string(val.Val), nil
}

func boolLiteral(expr sqlparser.Expr, target string) (file.Value, error) {
	switch v := expr.(type) {
	case sqlparser.BoolVal:
		return file.BoolValue(bool(v)), nil
	case *sqlparser.SQLVal:
		if v.Type == sqlparser.StrVal {
			switch strings.ToLower(string(v.Val)) {
			case "true":
				return file.BoolValue(true), nil
			case "false":
				return file.BoolValue(false), nil
			}
		}
	}
	return file.Value{}, translationErrorf(target,
		"expected true or false, got %s", sqlparser.String(expr))
}

// parsePermissions reads a permission literal as octal digits, matching
// how modes are written everywhere else (chmod, ls). The value must fit
// in the permission bits.
func parsePermissions(raw string) (uint32, error) {
	n, err := strconv.ParseUint(raw, 8, 32)
	if err != nil || n > uint64(file.PermMask) {
		return 0, translationErrorf("permissions",
			"%q is not an octal mode between 0 and 7777", raw)
	}
	return uint32(n), nil
}

// timeLayouts are tried in order against timestamp literals. The date-only
// layout flags the value for day-precision comparison.
var timeLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{time.RFC3339, false},
	{"2006-01-02", true},
}

func parseTimeLiteral(target, raw string) (file.Value, error) {
	for _, l := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if l.layout == time.RFC3339 {
			t, err = time.Parse(l.layout, raw)
		} else {
			t, err = time.ParseInLocation(l.layout, raw, time.Local)
		}
		if err == nil {
			v := file.TimeValue(t)
			v.DateOnly = l.dateOnly
			return v, nil
		}
	}
	return file.Value{}, translationErrorf(target,
		"%q is not a recognized timestamp; try '2006-01-02' or '2006-01-02 15:04:05'", raw)
}

// translateOrderBy accepts at most one criterion over a named attribute.
func translateOrderBy(orderBy sqlparser.OrderBy) (*OrderBy, error) {
	if len(orderBy) == 0 {
		return nil, nil
	}
	if len(orderBy) > 1 {
		return nil, translationErrorf("ORDER BY", "only one ordering attribute is supported")
	}
	attr, err := resolveColumn(orderBy[0].Expr)
	if err != nil {
		return nil, err
	}
	return &OrderBy{
		Attr:       attr,
		Descending: orderBy[0].Direction == sqlparser.DescScr,
	}, nil
}

// translateGroupBy accepts either a bare group key or one of the
// name_* functions carrying a pattern argument.
func translateGroupBy(groupBy sqlparser.GroupBy) (*assemble.GroupSpec, error) {
	if len(groupBy) == 0 {
		return nil, nil
	}
	if len(groupBy) > 1 {
		return nil, translationErrorf("GROUP BY", "only one grouping is supported")
	}

	switch g := groupBy[0].(type) {
	case *sqlparser.ColName:
		name := g.Name.Lowered()
		key, ok := assemble.ParseGroupKey(name)
		if !ok {
			return nil, translationErrorf(name,
				"unknown group key; known keys: %s",
				strings.Join(assemble.GroupKeyNames(), ", "))
		}
		spec := &assemble.GroupSpec{Key: key}
		if err := spec.Validate(); err != nil {
			return nil, &TranslationError{Construct: "GROUP BY", Message: err.Error()}
		}
		return spec, nil

	case *sqlparser.FuncExpr:
		return translateGroupFunc(g)

	default:
		return nil, translationErrorf(sqlparser.String(groupBy[0]),
			"unsupported GROUP BY expression")
	}
}

func translateGroupFunc(fn *sqlparser.FuncExpr) (*assemble.GroupSpec, error) {
	name := fn.Name.Lowered()
	key, ok := assemble.ParseGroupKey(name)
	if !ok {
		return nil, translationErrorf(name,
			"unknown group function; known keys: %s",
			strings.Join(assemble.GroupKeyNames(), ", "))
	}
	if len(fn.Exprs) != 1 {
		return nil, translationErrorf(name, "expects exactly one pattern argument")
	}
	aliased, ok := fn.Exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return nil, translationErrorf(name, "expects a quoted pattern argument")
	}
	pattern, err := stringLiteral(aliased.Expr, name)
	if err != nil {
		return nil, err
	}
	spec := &assemble.GroupSpec{Key: key, Pattern: pattern}
	if err := spec.Validate(); err != nil {
		return nil, &TranslationError{Construct: "GROUP BY", Message: err.Error()}
	}
	return spec, nil
}
