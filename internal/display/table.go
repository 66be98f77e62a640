package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	indent = "  "
	gutter = "  "
)

// Table lays out rows of cells under a header, padding each column to its
// widest cell. One row may be highlighted (the next prayer) and any number
// dimmed (prayers already past).
type Table struct {
	headers   []string
	rows      [][]string
	highlight int
	dimmed    map[int]bool
}

func NewTable(headers []string) *Table {
	return &Table{headers: headers, highlight: -1, dimmed: map[int]bool{}}
}

// AddRow appends a row. Cells past the last header are not rendered.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

func (t *Table) SetDimRow(idx int) {
	t.dimmed[idx] = true
}

// widths measures every column in terminal cells.
func (t *Table) widths() []int {
	w := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i := 0; i < len(w) && i < len(row); i++ {
			w[i] = max(w[i], lipgloss.Width(row[i]))
		}
	}
	return w
}

func (t *Table) styleRow(i int, line string) string {
	if i == t.highlight {
		return Accent(line)
	}
	if t.dimmed[i] {
		return Gray(line)
	}
	return line
}

// Render returns the table with every line indented, or "" without headers.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	w := t.widths()

	rules := make([]string, len(w))
	for i, n := range w {
		rules[i] = strings.Repeat("─", n)
	}

	var sb strings.Builder
	sb.WriteString(indent + Bold(formatRow(t.headers, w)) + "\n")
	sb.WriteString(Dim(indent+strings.Join(rules, gutter)) + "\n")
	for i, row := range t.rows {
		sb.WriteString(indent + t.styleRow(i, formatRow(row, w)) + "\n")
	}
	return sb.String()
}

// formatRow pads cells to widths and joins them with the gutter. Missing
// cells render as blanks.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	}
	return strings.Join(parts, gutter)
}
