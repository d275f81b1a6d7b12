package sheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Columns is the required header row, in template order.
var Columns = []string{"Date", "Name", "Type", "Amount", "Category"}

var templateRows = [][]any{
	{"01/01/2026", "Rent", "Needs", 650.00, "Rent"},
	{"02/01/2026", "Electricity", "Needs", 85.50, "Utilities"},
	{"03/01/2026", "Groceries", "Needs", 120.30, "Food"},
	{"05/01/2026", "Bus Pass", "Needs", 45.00, "Transport"},
	{"07/01/2026", "Cinema", "Wants", 24.00, "Entertainment"},
	{"09/01/2026", "Dinner Out", "Wants", 56.40, "Dining"},
	{"12/01/2026", "Streaming", "Wants", 10.99, "Entertainment"},
	{"15/01/2026", "Emergency Fund", "Savings", 100.00, "Savings"},
	{"20/01/2026", "Pension Top Up", "Savings", 25.00, "Retirement"},
	{"25/01/2026", "Books", "Wants", 8.51, "Hobbies"},
}

// WriteTemplate writes the sample budget workbook to w.
func WriteTemplate(w io.Writer) error {
	rows := make([][]any, 0, len(templateRows)+1)
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	rows = append(rows, header)
	rows = append(rows, templateRows...)

	data, err := EncodeXLSX(rows)
	if err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("WriteTemplate: write: %w", err)
	}
	return nil
}

// EncodeXLSX renders rows into a single-sheet workbook. Values are written
// with excelize's native typing, so numbers and times keep their cell types.
func EncodeXLSX(rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("EncodeXLSX: cell name: %w", err)
		}
		r := row
		if err := f.SetSheetRow(sheetName, axis, &r); err != nil {
			return nil, fmt.Errorf("EncodeXLSX: row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheetName, "A", "E", 16); err != nil {
		return nil, fmt.Errorf("EncodeXLSX: column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("EncodeXLSX: write: %w", err)
	}
	return buf.Bytes(), nil
}
