// Package validation checks an uploaded transaction table against the
// Date/Name/Type/Amount/Category schema.
package validation

import (
	"fmt"

	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/sheet"
)

// Diagnostic messages.
const (
	MsgMissingColumns  = "Missing required columns."
	MsgDateEmpty       = "Date is empty."
	MsgInvalidDate     = "Invalid date format."
	MsgInvalidName     = "Invalid name."
	MsgInvalidType     = "Invalid type."
	MsgInvalidAmount   = "Invalid amount."
	MsgInvalidCategory = "Invalid category."
)

// MaxTextLength is the rune limit for Name and Category.
const MaxTextLength = 150

// Result is the outcome of validating a table. Transactions is set only
// when Valid is true.
type Result struct {
	Valid        bool                 `json:"valid"`
	Diagnostics  []domain.Diagnostic  `json:"diagnostics"`
	Transactions []domain.Transaction `json:"-"`
}

type columns struct {
	date, name, typ, amount, category int
}

func (c columns) complete() bool {
	return c.date >= 0 && c.name >= 0 && c.typ >= 0 && c.amount >= 0 && c.category >= 0
}

// ValidateFile reads and validates an uploaded file. Reader failures are
// reported as a single table-level diagnostic.
func ValidateFile(filename string, data []byte) Result {
	t, err := sheet.Read(filename, data)
	if err != nil {
		return ReadFailure(err)
	}
	return Validate(t)
}

// ReadFailure reports a file that could not be read at all.
func ReadFailure(err error) Result {
	return Result{Diagnostics: []domain.Diagnostic{{
		Row:     0,
		Message: fmt.Sprintf("Error reading file: %v", err),
	}}}
}

// Validate checks every non-blank row. Each field rule runs independently,
// so one row can yield several diagnostics.
func Validate(t *sheet.Table) Result {
	cols := columns{
		date:     t.ColumnIndex("Date"),
		name:     t.ColumnIndex("Name"),
		typ:      t.ColumnIndex("Type"),
		amount:   t.ColumnIndex("Amount"),
		category: t.ColumnIndex("Category"),
	}

	diags := make([]domain.Diagnostic, 0)
	if !cols.complete() {
		diags = append(diags, domain.Diagnostic{Row: 0, Message: MsgMissingColumns})
	}

	txs := make([]domain.Transaction, 0, len(t.Rows))
	rowNum := 0
	for i := range t.Rows {
		r := record{
			date:     t.Cell(i, cols.date),
			name:     t.Cell(i, cols.name),
			typ:      t.Cell(i, cols.typ),
			amount:   t.Cell(i, cols.amount),
			category: t.Cell(i, cols.category),
		}
		if r.blank() {
			continue
		}
		rowNum++

		tx, msgs := r.check()
		for _, m := range msgs {
			diags = append(diags, domain.Diagnostic{Row: rowNum, Message: m})
		}
		if len(msgs) == 0 {
			txs = append(txs, tx)
		}
	}

	if len(diags) > 0 {
		return Result{Diagnostics: diags}
	}
	return Result{Valid: true, Diagnostics: diags, Transactions: txs}
}
