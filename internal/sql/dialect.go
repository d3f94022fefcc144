package sql

import (
	"strings"
	"unicode"
)

// The off-the-shelf SQL grammar does not know about filesystem paths: a
// bare `/var/log` or `~/Documents` after FROM does not tokenize as a table
// name, and `WITH RECURSIVE` opens a CTE it cannot finish parsing. prepare
// bridges that dialect gap before the grammar runs: it recognizes the
// recursion prefix and backtick-quotes the traversal target so the parser
// sees an ordinary identifier.

// prepare normalizes raw query text for the SQL parser. It returns the
// rewritten statement and whether the `WITH RECURSIVE` prefix was present.
func prepare(input string) (string, bool) {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)

	recursive := false
	if rest, ok := cutKeywords(s, "WITH", "RECURSIVE"); ok {
		recursive = true
		s = rest
	}

	switch {
	case hasKeywordPrefix(s, "SELECT"):
		s = quoteTargetAfter(s, "FROM")
	case hasKeywordPrefix(s, "UPDATE"):
		s = quoteTargetAfter(s, "UPDATE")
	}
	return preserveEscapes(s), recursive
}

// preserveEscapes doubles lone backslashes inside single-quoted literals.
// The parser's string lexer would otherwise swallow escapes it does not
// recognize, so `LIKE '100\%'` or `REGEXP '^\d'` would reach translation
// with the backslash already gone. `\\` and `\'` keep their usual lexer
// meaning (one backslash, one quote), as does the doubled-quote form `''`.
func preserveEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSingle, inBacktick := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inBacktick:
			if c == '`' {
				inBacktick = false
			}
			b.WriteByte(c)
		case inSingle:
			switch c {
			case '\\':
				if i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '\'') {
					b.WriteByte(c)
					b.WriteByte(s[i+1])
					i++
					continue
				}
				b.WriteString(`\\`)
			case '\'':
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteString("''")
					i++
					continue
				}
				inSingle = false
				b.WriteByte(c)
			default:
				b.WriteByte(c)
			}
		default:
			switch c {
			case '\'':
				inSingle = true
			case '`':
				inBacktick = true
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// cutKeywords strips a leading sequence of keywords, case-insensitively.
func cutKeywords(s string, keywords ...string) (string, bool) {
	rest := s
	for _, kw := range keywords {
		if len(rest) < len(kw) || !strings.EqualFold(rest[:len(kw)], kw) {
			return s, false
		}
		tail := rest[len(kw):]
		if tail != "" && !unicode.IsSpace(rune(tail[0])) {
			return s, false
		}
		rest = strings.TrimSpace(tail)
	}
	return rest, true
}

func hasKeywordPrefix(s, kw string) bool {
	_, ok := cutKeywords(s, kw)
	return ok
}

// quoteTargetAfter finds the first occurrence of keyword as a standalone
// word outside string literals and backtick-quotes the token that follows
// it. Already-backticked targets are left alone; single-quoted targets
// are requoted. When the keyword or target is absent the statement is
// returned unchanged and the parser reports the real syntax error.
func quoteTargetAfter(s, keyword string) string {
	pos := findKeyword(s, keyword)
	if pos < 0 {
		return s
	}

	i := pos + len(keyword)
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	if i >= len(s) {
		return s
	}

	start := i
	var raw string
	switch s[i] {
	case '`':
		return s
	case '\'':
		end := strings.IndexByte(s[i+1:], '\'')
		if end < 0 {
			return s
		}
		raw = s[i+1 : i+1+end]
		i += end + 2
	default:
		for i < len(s) && !unicode.IsSpace(rune(s[i])) {
			i++
		}
		raw = s[start:i]
	}

	return s[:start] + "`" + raw + "`" + s[i:]
}

// findKeyword locates keyword as a whole word outside '...' and `...`
// runs. Returns -1 when absent.
func findKeyword(s, keyword string) int {
	inSingle, inBacktick := false, false
	for i := 0; i+len(keyword) <= len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
			continue
		case inBacktick:
			if c == '`' {
				inBacktick = false
			}
			continue
		case c == '\'':
			inSingle = true
			continue
		case c == '`':
			inBacktick = true
			continue
		}

		if !strings.EqualFold(s[i:i+len(keyword)], keyword) {
			continue
		}
		if i > 0 && isWordChar(s[i-1]) {
			continue
		}
		after := i + len(keyword)
		if after < len(s) && isWordChar(s[after]) {
			continue
		}
		return i
	}
	return -1
}

func isWordChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
