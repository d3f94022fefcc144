package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fmql/fmql/internal/sql"
	"github.com/fmql/fmql/internal/testutil"
)

func TestSQLCommandSelectJSON(t *testing.T) {
	tree := testutil.NewTestTree(t).
		WithFile("a.txt", "alpha").
		WithFile("b.log", "bravo!").
		Build()
	withFormat(t, formatJSON)

	query := fmt.Sprintf("SELECT * FROM %s WHERE extension = 'txt'", tree.Path)
	out := captureStdout(t, func() {
		if err := sqlCmd.RunE(sqlCmd, []string{query}); err != nil {
			t.Fatalf("sqlCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool `json:"ok"`
		Data struct {
			Entries []entryView `json:"entries"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Meta.Count != 1 || len(resp.Data.Entries) != 1 {
		t.Fatalf("expected exactly one entry; out=%s", out)
	}
	if resp.Data.Entries[0].Name != "a.txt" {
		t.Fatalf("entry = %q, want a.txt", resp.Data.Entries[0].Name)
	}
}

func TestSQLCommandSyntaxErrorJSON(t *testing.T) {
	withFormat(t, formatJSON)

	out := captureStdout(t, func() {
		if err := sqlCmd.RunE(sqlCmd, []string{"SELEC * FORM /tmp"}); err != nil {
			t.Fatalf("sqlCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK    bool `json:"ok"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if resp.OK {
		t.Fatalf("expected ok=false; out=%s", out)
	}
	if resp.Error == nil || resp.Error.Code != ErrQuerySyntax {
		t.Fatalf("expected error code %s; out=%s", ErrQuerySyntax, out)
	}
}

func TestSQLCommandMissingRootErrorText(t *testing.T) {
	withFormat(t, formatText)

	err := sqlCmd.RunE(sqlCmd, []string{"SELECT * FROM /no/such/dir/anywhere"})
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
	var resolutionErr *sql.ResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatalf("error = %v, want a path resolution error", err)
	}
}

func TestCountUpdated(t *testing.T) {
	tree := testutil.NewTestTree(t).
		WithFile("a.sh", "x").
		WithFile("b.sh", "x").
		Build()
	withFormat(t, formatText)

	query := fmt.Sprintf("UPDATE %s SET permissions = '700' WHERE extension = 'sh'", tree.Path)
	q, err := sql.Translate(query)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	result, err := sql.Execute(q, sql.Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := countUpdated(result); got != 2 {
		t.Fatalf("countUpdated = %d, want 2", got)
	}
}
