package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/sheet"
)

// dateLayouts are tried in order for text dates: dd/mm/yyyy then dd-mm-yyyy.
var dateLayouts = []string{"2/1/2006", "2-1-2006"}

type record struct {
	date, name, typ, amount, category sheet.Cell
}

func (r record) blank() bool {
	return r.date.IsBlank() && r.name.IsBlank() && r.typ.IsBlank() &&
		r.amount.IsBlank() && r.category.IsBlank()
}

// check applies every field rule and returns the parsed transaction along
// with the messages of all rules that failed.
func (r record) check() (domain.Transaction, []string) {
	var (
		tx   domain.Transaction
		msgs []string
		ok   bool
	)

	if r.date.IsBlank() {
		msgs = append(msgs, MsgDateEmpty)
	} else if tx.Date, ok = parseDate(r.date); !ok {
		msgs = append(msgs, MsgInvalidDate)
	}

	if !validName(r.name) {
		msgs = append(msgs, MsgInvalidName)
	} else {
		tx.Name = r.name.Text
	}

	if tx.Type, ok = parseType(r.typ); !ok {
		msgs = append(msgs, MsgInvalidType)
	}

	if tx.Amount, ok = parseAmount(r.amount); !ok {
		msgs = append(msgs, MsgInvalidAmount)
	}

	if !validCategory(r.category) {
		msgs = append(msgs, MsgInvalidCategory)
	} else {
		tx.Category = r.category.Text
	}

	return tx, msgs
}

func parseDate(c sheet.Cell) (civil.Date, bool) {
	switch c.Kind {
	case sheet.KindDate:
		return civil.DateOf(c.Time), true
	case sheet.KindNumber:
		ts, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil {
			return civil.Date{}, false
		}
		return civil.DateOf(ts), true
	case sheet.KindString:
		s := strings.TrimSpace(c.Text)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return civil.DateOf(ts), true
			}
		}
	}
	return civil.Date{}, false
}

func validName(c sheet.Cell) bool {
	if c.Kind != sheet.KindString || c.IsBlank() {
		return false
	}
	if utf8.RuneCountInString(c.Text) > MaxTextLength {
		return false
	}
	compact := strings.ReplaceAll(c.Text, " ", "")
	if compact == "" {
		return false
	}
	for _, r := range compact {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func parseType(c sheet.Cell) (domain.BucketType, bool) {
	if c.Kind != sheet.KindString {
		return "", false
	}
	return domain.ParseBucketType(c.Text)
}

// parseAmount accepts positive numbers with optional thousands separators.
// The decimal-place limit is judged on the cell's literal text.
func parseAmount(c sheet.Cell) (decimal.Decimal, bool) {
	if c.Kind != sheet.KindString && c.Kind != sheet.KindNumber {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(c.Text, ",", "")))
	if err != nil || !v.IsPositive() {
		return decimal.Zero, false
	}
	if i := strings.LastIndexByte(c.Text, '.'); i >= 0 && len(c.Text)-i-1 > 3 {
		return decimal.Zero, false
	}
	return v, true
}

func validCategory(c sheet.Cell) bool {
	return c.Kind == sheet.KindString && !c.IsBlank() &&
		utf8.RuneCountInString(c.Text) <= MaxTextLength
}
