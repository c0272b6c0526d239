package ui

import (
	"strings"
	"unicode/utf8"
)

// Table renders rows as an org-mode table:
//
//	| ----- | ----------- |
//	| id  | No. Files |
//	| ----- | ----------- |
//	| abc | 2         |
//	| ----- | ----------- |
//
// Cells are left-justified and padded to the widest cell of their column,
// header included. Separator dash runs are two wider than their column.
// Widths count characters, not bytes.
type Table struct {
	headers   []string
	rows      [][]string
	colWidths []int
}

// NewTable creates a table with the given header row.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers:   headers,
		colWidths: make([]int, len(headers)),
	}
	for i, h := range headers {
		t.colWidths[i] = utf8.RuneCountInString(h)
	}
	return t
}

// AddRow adds a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := utf8.RuneCountInString(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table without a trailing newline.
func (t *Table) String() string {
	separator := t.separator()

	lines := make([]string, 0, len(t.rows)+4)
	lines = append(lines, separator, t.formatRow(t.headers), separator)
	for _, row := range t.rows {
		lines = append(lines, t.formatRow(row))
	}
	lines = append(lines, separator)

	return strings.Join(lines, "\n")
}

// separator draws width+2 dashes per column.
func (t *Table) separator() string {
	parts := make([]string, len(t.colWidths))
	for i, w := range t.colWidths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func (t *Table) formatRow(cells []string) string {
	parts := make([]string, len(t.colWidths))
	for i := range t.colWidths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = padRight(cell, t.colWidths[i])
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
