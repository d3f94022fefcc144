package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, interactive elements
// - Muted (gray): Secondary info, counts, timestamps
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths and highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	accentColor = defaultAccent
)

// ConfigureTheme applies the configured accent color. "none", "off",
// "default", and anything unparseable disable accent coloring entirely.
func ConfigureTheme(accent string) {
	if accent == "" {
		return
	}
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the active accent color, if coloring is enabled.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

func isDisableKeyword(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "default":
		return true
	}
	return false
}

// normalizeAccentColor accepts an ANSI 256 code ("39") or hex color
// ("#7aa2f7", "#abc") and returns the canonical form.
func normalizeAccentColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isDisableKeyword(s) {
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3:
			var b strings.Builder
			b.WriteByte('#')
			for i := 0; i < 3; i++ {
				if !isHexDigit(hex[i]) {
					return "", false
				}
				b.WriteByte(hex[i])
				b.WriteByte(hex[i])
			}
			return strings.ToLower(b.String()), true
		case 6:
			for i := 0; i < 6; i++ {
				if !isHexDigit(hex[i]) {
					return "", false
				}
			}
			return strings.ToLower(s), true
		}
		return "", false
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
