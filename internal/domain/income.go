package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidIncome is returned when income is not a positive number.
var ErrInvalidIncome = errors.New("income must be a positive number")

// ParseIncome parses a monthly income value. Thousands separators are allowed.
func ParseIncome(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, ErrInvalidIncome
	}
	v, err := decimal.NewFromString(s)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, ErrInvalidIncome
	}
	return v, nil
}
