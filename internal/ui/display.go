// Package ui renders styled terminal output: status lines, tables, and
// markdown.
package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal or its size
// cannot be read.
const DefaultTermWidth = 120

// DisplayContext carries the terminal geometry that width-aware renderers
// size themselves against.
type DisplayContext struct {
	TermWidth int
}

// NewDisplayContext detects the width of the terminal behind stdout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	width := DefaultTermWidth
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return &DisplayContext{TermWidth: width}
}

// NewDisplayContextWithWidth pins a fixed width, mainly for tests.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width}
}
