package display

import (
	"strings"
	"unicode/utf8"
)

const (
	indent = "  "
	gutter = "  "
)

// Table renders rows of cells as aligned columns under a bold header and a
// dim rule. At most one row is highlighted, usually today.
type Table struct {
	headers   []string
	rows      [][]string
	right     map[int]bool
	highlight int
}

// NewTable starts a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, right: map[int]bool{}, highlight: -1}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Highlight marks row i (0-based) for the accent style. -1 clears it.
func (t *Table) Highlight(i int) {
	t.highlight = i
}

// AlignRight right-aligns column col, for numbers.
func (t *Table) AlignRight(col int) {
	t.right[col] = true
}

// widths measures each column in runes so "°" and box-drawing characters
// count as one cell.
func (t *Table) widths() []int {
	w := make([]int, len(t.headers))
	measure := func(cells []string) {
		for i := range w {
			if i < len(cells) {
				w[i] = max(w[i], utf8.RuneCountInString(cells[i]))
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return w
}

// Render returns the table, one indented line per row.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()

	var sb strings.Builder
	line := func(s string, style Style) {
		sb.WriteString(indent)
		sb.WriteString(Paint(style, s))
		sb.WriteByte('\n')
	}

	line(t.formatRow(t.headers, widths), StyleBold)

	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("─", n)
	}
	line(strings.Join(rule, gutter), StyleDim)

	for i, row := range t.rows {
		style := Plain
		if i == t.highlight {
			style = StyleAccent
		}
		line(t.formatRow(row, widths), style)
	}
	return sb.String()
}

func (t *Table) formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, n := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", n-utf8.RuneCountInString(cell))
		if t.right[i] {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.Join(parts, gutter)
}
