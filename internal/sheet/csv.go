package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads comma-separated text. Every non-empty cell is a string.
func readCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("readCSV: %w", err)
	}

	rows := make([][]Cell, len(records))
	for i, rec := range records {
		rows[i] = make([]Cell, len(rec))
		for j, v := range rec {
			rows[i][j] = StringCell(v)
		}
	}
	return fromRows(rows), nil
}
