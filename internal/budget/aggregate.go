// Package budget aggregates validated transactions into the 50/30/20
// buckets and scores the result.
package budget

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-health/internal/domain"
)

// MaxTopWants caps the number of categories in Summary.TopWants.
const MaxTopWants = 5

// CategoryAmount is the total spent in one Wants category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary is the per-bucket view of a month of transactions.
type Summary struct {
	Income   decimal.Decimal  `json:"income"`
	Needs    decimal.Decimal  `json:"needs"`
	Wants    decimal.Decimal  `json:"wants"`
	Savings  decimal.Decimal  `json:"savings"`
	TopWants []CategoryAmount `json:"top_wants"`
}

// Aggregate sums amounts per bucket and ranks Wants spending by
// lower-cased category. Buckets with no rows are zero.
func Aggregate(rows []domain.Transaction, income decimal.Decimal) Summary {
	s := Summary{
		Income:   income,
		Needs:    decimal.Zero,
		Wants:    decimal.Zero,
		Savings:  decimal.Zero,
		TopWants: []CategoryAmount{},
	}

	index := make(map[string]int)
	var wants []CategoryAmount
	for _, tx := range rows {
		switch tx.Type {
		case domain.BucketNeeds:
			s.Needs = s.Needs.Add(tx.Amount)
		case domain.BucketSavings:
			s.Savings = s.Savings.Add(tx.Amount)
		case domain.BucketWants:
			s.Wants = s.Wants.Add(tx.Amount)

			cat := strings.ToLower(tx.Category)
			if i, ok := index[cat]; ok {
				wants[i].Amount = wants[i].Amount.Add(tx.Amount)
				continue
			}
			index[cat] = len(wants)
			wants = append(wants, CategoryAmount{Category: cat, Amount: tx.Amount})
		}
	}

	// Stable sort keeps first-seen order among equal totals.
	sort.SliceStable(wants, func(i, j int) bool {
		return wants[i].Amount.GreaterThan(wants[j].Amount)
	})
	if len(wants) > MaxTopWants {
		wants = wants[:MaxTopWants]
	}
	s.TopWants = append(s.TopWants, wants...)
	return s
}

// Amount returns the bucket total.
func (s Summary) Amount(b domain.BucketType) decimal.Decimal {
	switch b {
	case domain.BucketNeeds:
		return s.Needs
	case domain.BucketWants:
		return s.Wants
	case domain.BucketSavings:
		return s.Savings
	}
	return decimal.Zero
}

// Ratio returns the bucket total as a fraction of income, or 0 when income
// is not positive.
func (s Summary) Ratio(b domain.BucketType) float64 {
	if !s.Income.IsPositive() {
		return 0
	}
	return s.Amount(b).Div(s.Income).InexactFloat64()
}

// Percent returns the bucket total as a percentage of income.
func (s Summary) Percent(b domain.BucketType) float64 {
	return s.Ratio(b) * 100
}

// Total is the sum of all three buckets.
func (s Summary) Total() decimal.Decimal {
	return s.Needs.Add(s.Wants).Add(s.Savings)
}
