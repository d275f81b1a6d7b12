package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// BucketType is one of the three 50/30/20 budget buckets.
type BucketType string

const (
	BucketNeeds   BucketType = "Needs"
	BucketWants   BucketType = "Wants"
	BucketSavings BucketType = "Savings"
)

// Buckets lists the bucket types in report order.
var Buckets = []BucketType{BucketNeeds, BucketWants, BucketSavings}

// ParseBucketType matches s exactly (case-sensitive) against the bucket names.
func ParseBucketType(s string) (BucketType, bool) {
	for _, b := range Buckets {
		if string(b) == s {
			return b, true
		}
	}
	return "", false
}

// Target returns the share of income the 50/30/20 rule assigns to the bucket.
func (b BucketType) Target() float64 {
	switch b {
	case BucketNeeds:
		return 0.5
	case BucketWants:
		return 0.3
	case BucketSavings:
		return 0.2
	}
	return 0
}

// Transaction is one validated row of an uploaded spreadsheet.
type Transaction struct {
	Date     civil.Date      `json:"date"`
	Name     string          `json:"name"`
	Type     BucketType      `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}
