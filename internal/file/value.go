package file

import (
	"strings"
	"time"
)

// Kind is the comparable type of an attribute value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindTime:
		return "timestamp"
	case KindBool:
		return "boolean"
	default:
		return "string"
	}
}

// Value is one typed attribute or literal value. Exactly one field besides
// Kind is meaningful.
type Value struct {
	Kind Kind

	Str  string
	Int  int64
	Time time.Time
	Bool bool

	// DateOnly marks a timestamp literal that carried no time-of-day.
	// Comparisons against a date-only value are performed at day precision.
	DateOnly bool
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue wraps n.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// TimeValue wraps t.
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Compare returns -1, 0, or 1 ordering a relative to b. Both values must be
// of the same kind; translation guarantees this for query expressions.
// Strings order lexicographically, booleans order false before true, and
// timestamps order chronologically, truncated to the day when either side
// is date-only.
func Compare(a, b Value) int {
	switch a.Kind {
	case KindInt:
		return compareInt(a.Int, b.Int)
	case KindTime:
		at, bt := a.Time, b.Time
		if a.DateOnly || b.DateOnly {
			at = dayOf(at)
			bt = dayOf(bt)
		}
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	case KindBool:
		av, bv := int64(0), int64(0)
		if a.Bool {
			av = 1
		}
		if b.Bool {
			bv = 1
		}
		return compareInt(av, bv)
	default:
		return strings.Compare(a.Str, b.Str)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// dayOf truncates t to midnight in its own location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
