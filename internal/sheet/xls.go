package sheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/extrame/xls"
)

// readXLS reads the first worksheet of a legacy BIFF workbook. The library
// only exposes rendered text, so numeric-looking values become KindNumber.
func readXLS(data []byte) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("readXLS: open workbook: %w", err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("readXLS: workbook has no sheets")
	}

	var rows [][]Cell
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]Cell, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, textCell(row.Col(j)))
		}
		rows = append(rows, cells)
	}

	return fromRows(trimTrailingEmpty(rows)), nil
}

func textCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Cell{Kind: KindNumber, Text: s, Number: n}
	}
	return Cell{Kind: KindString, Text: s}
}

func trimTrailingEmpty(rows [][]Cell) [][]Cell {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}
