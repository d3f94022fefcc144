package sql

import "fmt"

// The engine distinguishes three fatal error classes, all raised before
// any filesystem access:
//
//   - SyntaxError: the text does not parse as SQL at all.
//   - TranslationError: valid SQL using an unsupported construct, an
//     unknown attribute, or a malformed literal.
//   - ResolutionError: the FROM target cannot be turned into any
//     traversal root.
//
// Per-entry I/O and mutation failures are not errors of the query; they
// are collected and reported alongside results.

// SyntaxError wraps a parse failure from the SQL grammar.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// TranslationError rejects a syntactically valid query, naming the
// offending construct.
type TranslationError struct {
	Construct string
	Message   string
}

func (e *TranslationError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("unsupported: %s: %s", e.Construct, e.Message)
	}
	return e.Message
}

func translationErrorf(construct, format string, args ...interface{}) error {
	return &TranslationError{Construct: construct, Message: fmt.Sprintf(format, args...)}
}

// ResolutionError reports a FROM target that does not resolve to a
// traversable root.
type ResolutionError struct {
	Target  string
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %s", e.Target, e.Message)
}
