package domain

import "fmt"

// Diagnostic describes one validation failure. Row 0 marks a table-level
// defect; data rows are numbered from 1, header excluded.
type Diagnostic struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Row == 0 {
		return d.Message
	}
	return fmt.Sprintf("Row %d: %s", d.Row, d.Message)
}
