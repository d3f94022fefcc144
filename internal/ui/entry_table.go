package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in an EntryTable.
type ColumnDef struct {
	Name       string         // Header label
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style applied to cells in this column
}

// EntryTable renders query results as a bordered table sized to the
// terminal.
type EntryTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

// Standard column definitions for file listings.
var (
	// ColNum is the row number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "#",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColName is the entry name column (flexible width, accented).
	ColName = ColumnDef{
		Name:       "name",
		WidthRatio: 0.40,
		MinWidth:   16,
		MaxWidth:   60,
		Align:      AlignLeft,
		Style:      Accent,
	}

	// ColSize is the human-readable size column.
	ColSize = ColumnDef{
		Name:     "size",
		MinWidth: 9,
		MaxWidth: 12,
		Align:    AlignRight,
	}

	// ColMode is the symbolic permissions column.
	ColMode = ColumnDef{
		Name:     "mode",
		MinWidth: 9,
		MaxWidth: 10,
		Align:    AlignLeft,
	}

	// ColModified is the modification timestamp column.
	ColModified = ColumnDef{
		Name:     "modified",
		MinWidth: 16,
		MaxWidth: 19,
		Align:    AlignLeft,
		Style:    Muted,
	}

	// ColOwner is the owning user column.
	ColOwner = ColumnDef{
		Name:       "owner",
		WidthRatio: 0.15,
		MinWidth:   6,
		MaxWidth:   16,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColGroup is the group name column for grouped results.
	ColGroup = ColumnDef{
		Name:       "group",
		WidthRatio: 0.45,
		MinWidth:   16,
		MaxWidth:   50,
		Align:      AlignLeft,
		Style:      Accent,
	}

	// ColCount is a numeric aggregate column.
	ColCount = ColumnDef{
		Name:     "files",
		MinWidth: 6,
		MaxWidth: 9,
		Align:    AlignRight,
	}
)

// Standard layouts.
var (
	// EntryLayout lays out individual entries:
	// [num, mode, owner, size, modified, name]
	EntryLayout = []ColumnDef{ColNum, ColMode, ColOwner, ColSize, ColModified, ColName}

	// GroupLayout lays out aggregate rows: [group, files, dirs, size]
	GroupLayout = []ColumnDef{
		ColGroup,
		ColCount,
		{Name: "dirs", MinWidth: 6, MaxWidth: 9, Align: AlignRight},
		{Name: "total", MinWidth: 9, MaxWidth: 12, Align: AlignRight},
	}
)

// NewEntryTable creates an EntryTable with the given display context and
// column layout.
func NewEntryTable(display *DisplayContext, columns []ColumnDef) *EntryTable {
	return &EntryTable{
		display: display,
		columns: columns,
	}
}

// AddRow adds a row; missing cells render empty.
func (t *EntryTable) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := 0; i < len(t.columns) && i < len(cells); i++ {
		row[i] = cells[i]
	}
	t.rows = append(t.rows, row)
}

// ColumnWidth returns the calculated width for a column by index, so
// callers can truncate content to what actually fits.
func (t *EntryTable) ColumnWidth(index int) int {
	widths := t.calculateWidths()
	if index >= 0 && index < len(widths) {
		return widths[index]
	}
	return 60
}

// calculateWidths computes column widths based on terminal size and column
// definitions.
func (t *EntryTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}
			widths[i] = width
		}
	}
	return widths
}

// Render generates the table output as a string.
func (t *EntryTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Name
	}

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderHeader(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if row == table.HeaderRow {
				style = Muted
			}
			style = style.Width(widths[col])

			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Headers(headers...).
		Rows(t.rows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if
// needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
