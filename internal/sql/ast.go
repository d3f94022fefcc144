// Package sql translates SQL-shaped query text into filesystem operations
// and executes them: a SELECT discovers entries, an UPDATE mutates
// attributes of matching entries.
package sql

import (
	"regexp"

	"github.com/fmql/fmql/internal/assemble"
	"github.com/fmql/fmql/internal/file"
)

// Operation is the query kind.
type Operation int

const (
	OpSelect Operation = iota
	OpUpdate
)

func (op Operation) String() string {
	if op == OpUpdate {
		return "UPDATE"
	}
	return "SELECT"
}

// Query is the engine's canonical representation of one parsed request.
type Query struct {
	Operation Operation

	// From is the traversal target after `~` expansion: a directory path
	// or a glob. Glob expansion happens once at execution start.
	From string

	// Recursive descends into subdirectories. Always true for UPDATE.
	Recursive bool

	// Where is the predicate root; nil matches everything.
	Where Expr

	// OrderBy is the requested ordering; nil means name ascending.
	OrderBy *OrderBy

	// GroupBy is the optional grouping request.
	GroupBy *assemble.GroupSpec

	// Assignments is non-empty exactly when Operation is OpUpdate.
	Assignments []Assignment
}

// OrderBy is one ordering criterion.
type OrderBy struct {
	Attr       file.Attr
	Descending bool
}

// Assignment is one SET clause entry, validated at translation time.
type Assignment struct {
	Attr  string
	Value file.Value
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "="
	}
}

// Expr is a node of the normalized predicate tree. The set of variants is
// closed: Comparison, Like, Regexp, And, Or, Not. Every node is fully
// validated and compiled at translation time, so Match never fails.
type Expr interface {
	// Match evaluates the predicate against one entry.
	Match(e *file.Entry) bool
}

// Comparison compares one attribute against a typed literal.
type Comparison struct {
	Attr  file.Attr
	Op    CompareOp
	Value file.Value
}

func (c *Comparison) Match(e *file.Entry) bool {
	cmp := file.Compare(c.Attr.Value(e), c.Value)
	switch c.Op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpLe:
		return cmp <= 0
	default:
		return cmp >= 0
	}
}

// Like matches a string attribute against a SQL LIKE pattern,
// case-insensitively. The pattern is compiled once at translation.
type Like struct {
	Attr    file.Attr
	Pattern string

	re *regexp.Regexp
}

func (l *Like) Match(e *file.Entry) bool {
	return l.re.MatchString(l.Attr.Value(e).Str)
}

// Regexp matches a string attribute against a Go regular expression,
// unanchored and case-sensitive. Compiled once at translation.
type Regexp struct {
	Attr    file.Attr
	Pattern string

	re *regexp.Regexp
}

func (r *Regexp) Match(e *file.Entry) bool {
	return r.re.MatchString(r.Attr.Value(e).Str)
}

// And is short-circuiting conjunction: Right is not evaluated when Left
// is false.
type And struct {
	Left, Right Expr
}

func (a *And) Match(e *file.Entry) bool {
	return a.Left.Match(e) && a.Right.Match(e)
}

// Or is short-circuiting disjunction: Right is not evaluated when Left
// is true.
type Or struct {
	Left, Right Expr
}

func (o *Or) Match(e *file.Entry) bool {
	return o.Left.Match(e) || o.Right.Match(e)
}

// Not inverts its inner predicate.
type Not struct {
	Inner Expr
}

func (n *Not) Match(e *file.Entry) bool {
	return !n.Inner.Match(e)
}
