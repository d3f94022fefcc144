package file

import (
	"testing"
	"time"

	"github.com/fmql/fmql/internal/testutil"
)

func TestFromPath(t *testing.T) {
	tree := testutil.NewTestTree(t).
		WithFileMode("report.TXT", "twelve bytes", 0o644).
		WithDir("sub").
		Build()

	entry, err := FromPath(tree.Join("report.TXT"))
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}

	if entry.Name != "report.TXT" {
		t.Errorf("Name = %q, want report.TXT", entry.Name)
	}
	if entry.Extension() != "txt" {
		t.Errorf("Extension() = %q, want txt (lower-cased)", entry.Extension())
	}
	if entry.Size != int64(len("twelve bytes")) {
		t.Errorf("Size = %d, want %d", entry.Size, len("twelve bytes"))
	}
	if entry.Permissions != 0o644 {
		t.Errorf("Permissions = %o, want 644", entry.Permissions)
	}
	if entry.IsDir {
		t.Error("IsDir = true for a regular file")
	}
	if entry.IsHidden() {
		t.Error("IsHidden() = true for report.TXT")
	}
	if time.Since(entry.Modified) > time.Minute {
		t.Errorf("Modified = %v, expected a recent timestamp", entry.Modified)
	}

	dir, err := FromPath(tree.Join("sub"))
	if err != nil {
		t.Fatalf("FromPath(dir): %v", err)
	}
	if !dir.IsDir {
		t.Error("IsDir = false for a directory")
	}
}

func TestExtensionEdgeCases(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"archive.tar.gz", "gz"},
		{"Makefile", ""},
		{".bashrc", ""},
		{"photo.JPG", "jpg"},
		{"noext.", ""},
	}
	for _, tc := range cases {
		e := &Entry{Name: tc.name}
		if got := e.Extension(); got != tc.want {
			t.Errorf("Extension(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestHidden(t *testing.T) {
	if !(&Entry{Name: ".git"}).IsHidden() {
		t.Error(".git should be hidden")
	}
	if (&Entry{Name: "git"}).IsHidden() {
		t.Error("git should not be hidden")
	}
}

func TestExecutableDerivedFromPermissions(t *testing.T) {
	e := &Entry{Permissions: 0o644}
	if e.IsExecutable() {
		t.Error("mode 644 should not be executable")
	}

	// Executability must track a permission update with no re-read.
	e.SetPermissions(0o755)
	if !e.IsExecutable() {
		t.Error("mode 755 should be executable")
	}
	if e.Permissions != 0o755 {
		t.Errorf("Permissions = %o after SetPermissions, want 755", e.Permissions)
	}
}

func TestSymbolicPermissions(t *testing.T) {
	cases := []struct {
		perm uint32
		want string
	}{
		{0o000, "---------"},
		{0o777, "rwxrwxrwx"},
		{0o644, "rw-r--r--"},
		{0o755, "rwxr-xr-x"},
		{0o640, "rw-r-----"},
	}
	for _, tc := range cases {
		e := &Entry{Permissions: tc.perm}
		if got := e.SymbolicPermissions(); got != tc.want {
			t.Errorf("SymbolicPermissions(%o) = %q, want %q", tc.perm, got, tc.want)
		}
	}
}

func TestOctalPermissions(t *testing.T) {
	e := &Entry{Permissions: 0o755}
	if got := e.OctalPermissions(); got != "755" {
		t.Errorf("OctalPermissions() = %q, want 755", got)
	}
}
