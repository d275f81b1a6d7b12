// Package sheet reads uploaded spreadsheets into typed tables and writes the
// sample budget workbook.
package sheet

import (
	"strings"
	"time"
)

// CellKind is the storage type of a cell as reported by the source file.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindString
	KindNumber
	KindDate
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "empty"
}

// Cell holds one value together with the literal text it was stored as.
// Text is never reformatted, so checks on the written form (such as the
// number of decimal places) see what the file actually contains.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64   // set for KindNumber
	Time   time.Time // set for KindDate
}

// IsBlank reports whether the cell is empty or a whitespace-only string.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(c.Text) == ""
	}
	return false
}

// StringCell builds a text cell.
func StringCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: KindString, Text: s}
}

// Table is a header row followed by data rows. Rows may be shorter than the
// header; missing cells read as empty.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// ColumnIndex returns the position of the header named name, ignoring
// surrounding whitespace, or -1. The first match wins.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}
