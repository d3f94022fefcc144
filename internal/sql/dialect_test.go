package sql

import "testing"

func TestPrepareQuotesFromTarget(t *testing.T) {
	cases := []struct {
		in        string
		want      string
		recursive bool
	}{
		{
			in:   "SELECT * FROM /var/log WHERE size > 100",
			want: "SELECT * FROM `/var/log` WHERE size > 100",
		},
		{
			in:   "select * from ~/Documents",
			want: "select * from `~/Documents`",
		},
		{
			in:        "WITH RECURSIVE SELECT * FROM /tmp",
			want:      "SELECT * FROM `/tmp`",
			recursive: true,
		},
		{
			in:        "with recursive select * from .",
			want:      "select * from `.`",
			recursive: true,
		},
		{
			in:   "SELECT * FROM '/path with spaces' WHERE name = 'x'",
			want: "SELECT * FROM `/path with spaces` WHERE name = 'x'",
		},
		{
			in:   "SELECT * FROM `/already/quoted`",
			want: "SELECT * FROM `/already/quoted`",
		},
		{
			in:   "UPDATE /tmp/scripts SET permissions = '755'",
			want: "UPDATE `/tmp/scripts` SET permissions = '755'",
		},
		{
			// Trailing semicolon is stripped before rewriting.
			in:   "SELECT * FROM /tmp;",
			want: "SELECT * FROM `/tmp`",
		},
		{
			// String literals later in the statement stay untouched.
			in:   "UPDATE /d SET permissions = '755' WHERE name = 'from here'",
			want: "UPDATE `/d` SET permissions = '755' WHERE name = 'from here'",
		},
	}

	for _, tc := range cases {
		got, recursive := prepare(tc.in)
		if got != tc.want {
			t.Errorf("prepare(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if recursive != tc.recursive {
			t.Errorf("prepare(%q) recursive = %v, want %v", tc.in, recursive, tc.recursive)
		}
	}
}

func TestPreserveEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// A lone backslash inside a string literal is doubled so the
		// lexer hands it through intact.
		{`WHERE name LIKE '100\%'`, `WHERE name LIKE '100\\%'`},
		{`WHERE name LIKE 'a\_b'`, `WHERE name LIKE 'a\\_b'`},
		{`WHERE name REGEXP '^\d{4}'`, `WHERE name REGEXP '^\\d{4}'`},
		// Recognized escape pairs keep their lexer meaning.
		{`WHERE name = 'a\\b'`, `WHERE name = 'a\\b'`},
		{`WHERE name = 'it\'s'`, `WHERE name = 'it\'s'`},
		{`WHERE name = 'it''s'`, `WHERE name = 'it''s'`},
		// Backslashes outside string literals are untouched.
		{"SELECT * FROM `/a\\b`", "SELECT * FROM `/a\\b`"},
		{`WHERE size > 10`, `WHERE size > 10`},
	}
	for _, tc := range cases {
		if got := preserveEscapes(tc.in); got != tc.want {
			t.Errorf("preserveEscapes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrepareDoublesLikeEscapes(t *testing.T) {
	got, _ := prepare(`SELECT * FROM /tmp WHERE name LIKE '100\%'`)
	want := "SELECT * FROM `/tmp` WHERE name LIKE '100\\\\%'"
	if got != want {
		t.Errorf("prepare = %q, want %q", got, want)
	}
}

func TestPrepareLeavesUnknownStatementsAlone(t *testing.T) {
	in := "DELETE FROM files"
	got, recursive := prepare(in)
	if got != in || recursive {
		t.Errorf("prepare(%q) = %q (recursive=%v), want unchanged", in, got, recursive)
	}
}

func TestFindKeywordWordBoundaries(t *testing.T) {
	if pos := findKeyword("SELECT * FROMAGE FROM /x", "FROM"); pos != 17 {
		t.Errorf("findKeyword ignored the word boundary: pos = %d", pos)
	}
	if pos := findKeyword("SELECT * WHERE x = 'from'", "FROM"); pos != -1 {
		t.Errorf("findKeyword matched inside a string literal: pos = %d", pos)
	}
}
