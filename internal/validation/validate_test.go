package validation

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/sheet"
)

var header = []string{"Date", "Name", "Type", "Amount", "Category"}

func s(v string) sheet.Cell { return sheet.StringCell(v) }

func n(text string, v float64) sheet.Cell {
	return sheet.Cell{Kind: sheet.KindNumber, Text: text, Number: v}
}

func row(cells ...sheet.Cell) []sheet.Cell { return cells }

func validRow() []sheet.Cell {
	return row(s("01/02/2024"), s("Coffee Shop"), s("Wants"), s("12.50"), s("Food"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rows [][]sheet.Cell
		want []domain.Diagnostic
	}{
		{
			name: "valid row",
			rows: [][]sheet.Cell{validRow()},
		},
		{
			name: "empty table",
			rows: nil,
		},
		{
			name: "four decimal places",
			rows: [][]sheet.Cell{row(s("01/02/2024"), s("Snack"), s("Wants"), n("1.1234", 1.1234), s("Food"))},
			want: []domain.Diagnostic{{Row: 1, Message: MsgInvalidAmount}},
		},
		{
			name: "three decimal places",
			rows: [][]sheet.Cell{row(s("01/02/2024"), s("Snack"), s("Wants"), n("1.125", 1.125), s("Food"))},
		},
		{
			name: "thousands separator",
			rows: [][]sheet.Cell{row(s("01/02/2024"), s("Rent"), s("Needs"), s("1,250.50"), s("Housing"))},
		},
		{
			name: "zero and negative amounts",
			rows: [][]sheet.Cell{
				row(s("01/02/2024"), s("Refund"), s("Wants"), n("0", 0), s("Food")),
				row(s("01/02/2024"), s("Refund"), s("Wants"), s("-5"), s("Food")),
			},
			want: []domain.Diagnostic{
				{Row: 1, Message: MsgInvalidAmount},
				{Row: 2, Message: MsgInvalidAmount},
			},
		},
		{
			name: "dash date and serial date",
			rows: [][]sheet.Cell{
				row(s("5-3-2024"), s("Bus"), s("Needs"), s("2"), s("Transport")),
				row(n("45356", 45356), s("Bus"), s("Needs"), s("2"), s("Transport")),
			},
		},
		{
			name: "native date cell",
			rows: [][]sheet.Cell{
				row(sheet.Cell{Kind: sheet.KindDate, Text: "2024-03-05T00:00:00Z", Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
					s("Bus"), s("Needs"), s("2"), s("Transport")),
			},
		},
		{
			name: "every field invalid",
			rows: [][]sheet.Cell{row(s("2024/02/01"), s("!!!"), s("needs"), s("abc"), sheet.Cell{})},
			want: []domain.Diagnostic{
				{Row: 1, Message: MsgInvalidDate},
				{Row: 1, Message: MsgInvalidName},
				{Row: 1, Message: MsgInvalidType},
				{Row: 1, Message: MsgInvalidAmount},
				{Row: 1, Message: MsgInvalidCategory},
			},
		},
		{
			name: "empty date",
			rows: [][]sheet.Cell{row(s("  "), s("Bus"), s("Needs"), s("2"), s("Transport"))},
			want: []domain.Diagnostic{{Row: 1, Message: MsgDateEmpty}},
		},
		{
			name: "numeric name and category",
			rows: [][]sheet.Cell{row(s("01/02/2024"), n("42", 42), s("Needs"), s("2"), n("7", 7))},
			want: []domain.Diagnostic{
				{Row: 1, Message: MsgInvalidName},
				{Row: 1, Message: MsgInvalidCategory},
			},
		},
		{
			name: "long name and category",
			rows: [][]sheet.Cell{row(s("01/02/2024"), s(strings.Repeat("a", 151)), s("Needs"), s("2"), s(strings.Repeat("é", 151)))},
			want: []domain.Diagnostic{
				{Row: 1, Message: MsgInvalidName},
				{Row: 1, Message: MsgInvalidCategory},
			},
		},
		{
			name: "unicode name at limit",
			rows: [][]sheet.Cell{row(s("01/02/2024"), s(strings.Repeat("ü", 150)), s("Needs"), s("2"), s("Café & Bar"))},
		},
		{
			name: "blank rows dropped before numbering",
			rows: [][]sheet.Cell{
				row(s(" "), sheet.Cell{}, s(""), sheet.Cell{}, s("\t")),
				validRow(),
				nil,
				row(s("01/02/2024"), s("Bus"), s("Spending"), s("2"), s("Transport")),
			},
			want: []domain.Diagnostic{{Row: 2, Message: MsgInvalidType}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(&sheet.Table{Headers: header, Rows: tt.rows})

			if len(tt.want) == 0 {
				if !got.Valid {
					t.Fatalf("Validate() diagnostics = %v, want valid", got.Diagnostics)
				}
				return
			}
			if got.Valid {
				t.Fatalf("Validate() valid, want %v", tt.want)
			}
			if !reflect.DeepEqual(got.Diagnostics, tt.want) {
				t.Errorf("Diagnostics = %v, want %v", got.Diagnostics, tt.want)
			}
			if got.Transactions != nil {
				t.Errorf("Transactions = %v, want nil on failure", got.Transactions)
			}
		})
	}
}

func TestValidateBuildsTransactions(t *testing.T) {
	got := Validate(&sheet.Table{
		Headers: []string{" Category", "Amount ", "Type", "Name", "Date", "Notes"},
		Rows: [][]sheet.Cell{
			row(s("Food"), s("1,200.5"), s("Wants"), s("Dinner"), s("9/2/2024"), s("ignored")),
		},
	})
	if !got.Valid {
		t.Fatalf("Validate() diagnostics = %v", got.Diagnostics)
	}
	if len(got.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(got.Transactions))
	}

	tx := got.Transactions[0]
	if tx.Date != (civil.Date{Year: 2024, Month: time.February, Day: 9}) {
		t.Errorf("Date = %v, want 2024-02-09", tx.Date)
	}
	if tx.Type != domain.BucketWants || tx.Name != "Dinner" || tx.Category != "Food" {
		t.Errorf("Transaction = %+v", tx)
	}
	if tx.Amount.String() != "1200.5" {
		t.Errorf("Amount = %s, want 1200.5", tx.Amount)
	}
}

func TestValidateMissingColumns(t *testing.T) {
	got := Validate(&sheet.Table{
		Headers: []string{"Date", "Name", "Type", "Amount"},
		Rows:    [][]sheet.Cell{row(s("01/02/2024"), s("Bus"), s("Needs"), s("2"))},
	})
	want := []domain.Diagnostic{
		{Row: 0, Message: MsgMissingColumns},
		{Row: 1, Message: MsgInvalidCategory},
	}
	if got.Valid {
		t.Fatal("Validate() valid, want missing columns")
	}
	if !reflect.DeepEqual(got.Diagnostics, want) {
		t.Errorf("Diagnostics = %v, want %v", got.Diagnostics, want)
	}
}

func TestValidateFile(t *testing.T) {
	data, err := sheet.EncodeXLSX([][]any{
		{"Date", "Name", "Type", "Amount", "Category"},
		{"01/02/2024", "Rent", "Needs", 900, "Housing"},
		{"", "", "", "", ""},
		{"02/02/2024", "Snack", "Wants", 1.1234, "Food"},
	})
	if err != nil {
		t.Fatalf("EncodeXLSX() error = %v", err)
	}

	got := ValidateFile("budget.xlsx", data)
	want := []domain.Diagnostic{{Row: 2, Message: MsgInvalidAmount}}
	if !reflect.DeepEqual(got.Diagnostics, want) {
		t.Errorf("Diagnostics = %v, want %v", got.Diagnostics, want)
	}
}

// Excel stores numbers as 17-significant-digit doubles; amounts typed with
// two decimals must still pass the precision rule.
func TestValidateFileExcelStoredDoubles(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"
	rows := [][]any{
		{"Date", "Name", "Type", "Amount", "Category"},
		{"01/02/2024", "Snack", "Wants", nil, "Food"},
		{"02/02/2024", "Bus", "Needs", nil, "Transport"},
		{"03/02/2024", "Gum", "Wants", nil, "Food"},
	}
	for i, r := range rows {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetName, axis, &r); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	stored := map[string]string{
		"D2": "5.2999999999999998",
		"D3": "1.1000000000000001",
		"D4": "1.1234000000000000",
	}
	for cell, v := range stored {
		if err := f.SetCellDefault(sheetName, cell, v); err != nil {
			t.Fatalf("SetCellDefault(%s) error = %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}

	got := ValidateFile("budget.xlsx", buf.Bytes())
	want := []domain.Diagnostic{{Row: 3, Message: MsgInvalidAmount}}
	if !reflect.DeepEqual(got.Diagnostics, want) {
		t.Errorf("Diagnostics = %v, want %v", got.Diagnostics, want)
	}
}

func TestValidateFileReadError(t *testing.T) {
	got := ValidateFile("budget.xlsx", []byte("garbage"))
	if got.Valid {
		t.Fatal("ValidateFile() valid for unreadable file")
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Row != 0 ||
		!strings.HasPrefix(got.Diagnostics[0].Message, "Error reading file: ") {
		t.Errorf("Diagnostics = %v, want single read error", got.Diagnostics)
	}
}
