package testutil

import (
	"os"
	"path/filepath"
)

// AssertFileExists fails the test if the file does not exist.
func (tr *TestTree) AssertFileExists(relPath string) {
	tr.t.Helper()
	fullPath := filepath.Join(tr.Path, relPath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		tr.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (tr *TestTree) AssertFileNotExists(relPath string) {
	tr.t.Helper()
	fullPath := filepath.Join(tr.Path, relPath)
	if _, err := os.Stat(fullPath); err == nil {
		tr.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertDirExists fails the test if the directory does not exist.
func (tr *TestTree) AssertDirExists(relPath string) {
	tr.t.Helper()
	fullPath := filepath.Join(tr.Path, relPath)
	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		tr.t.Errorf("expected directory to exist: %s", relPath)
		return
	}
	if !info.IsDir() {
		tr.t.Errorf("expected %s to be a directory, but it's a file", relPath)
	}
}

// AssertMode fails the test if the entry's permission bits differ from
// want.
func (tr *TestTree) AssertMode(relPath string, want os.FileMode) {
	tr.t.Helper()
	fullPath := filepath.Join(tr.Path, relPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		tr.t.Errorf("stat %s: %v", relPath, err)
		return
	}
	if got := info.Mode().Perm(); got != want.Perm() {
		tr.t.Errorf("mode of %s = %o, want %o", relPath, got, want.Perm())
	}
}
