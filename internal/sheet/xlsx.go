package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the active worksheet from each cell's raw stored value.
func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("readXLSX: open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	if sheetName == "" {
		return nil, fmt.Errorf("readXLSX: workbook has no sheets")
	}

	rawRows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("readXLSX: read rows: %w", err)
	}

	rows := make([][]Cell, len(rawRows))
	for i, rawRow := range rawRows {
		rows[i] = make([]Cell, len(rawRow))
		for j, value := range rawRow {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("readXLSX: cell name: %w", err)
			}
			cellType, err := f.GetCellType(sheetName, axis)
			if err != nil {
				return nil, fmt.Errorf("readXLSX: cell type %s: %w", axis, err)
			}
			rows[i][j] = xlsxCell(cellType, value)
		}
	}

	return fromRows(rows), nil
}

func xlsxCell(cellType excelize.CellType, value string) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Cell{Kind: KindString, Text: value}
	case excelize.CellTypeBool:
		if value == "1" {
			return Cell{Kind: KindBool, Text: "TRUE"}
		}
		return Cell{Kind: KindBool, Text: "FALSE"}
	case excelize.CellTypeDate:
		if ts, ok := parseISOTime(value); ok {
			return Cell{Kind: KindDate, Text: value, Time: ts}
		}
		return Cell{Kind: KindString, Text: value}
	case excelize.CellTypeError:
		return Cell{Kind: KindString, Text: value}
	}

	// Numbers are usually stored without a type attribute. Excel writes
	// doubles with 17 significant digits (5.3 as 5.2999999999999998), so
	// Text is the shortest form that parses back to the same value.
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return Cell{Kind: KindNumber, Text: strconv.FormatFloat(n, 'f', -1, 64), Number: n}
	}
	return Cell{Kind: KindString, Text: value}
}

func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
