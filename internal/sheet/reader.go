package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file with an unknown extension is
// not a readable xlsx workbook either.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Read parses data into a Table, choosing the reader from the filename's
// extension. Unknown extensions are tried as xlsx.
func Read(filename string, data []byte) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		t   *Table
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		t, err = readXLSX(data)
	case ".xls":
		t, err = readXLS(data)
	case ".csv":
		t, err = readCSV(data)
	default:
		if t, err = readXLSX(data); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrUnsupportedFormat, ext, err)
		}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// fromRows splits raw rows into header and data. An empty input yields a
// table with no headers.
func fromRows(rows [][]Cell) *Table {
	t := &Table{}
	if len(rows) == 0 {
		return t
	}
	t.Headers = make([]string, len(rows[0]))
	for i, c := range rows[0] {
		t.Headers[i] = c.Text
	}
	t.Rows = rows[1:]
	return t
}
