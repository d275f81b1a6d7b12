package budget

// Deviation weights and hard-rule thresholds of the health score.
const (
	needsWeight   = 0.2
	wantsWeight   = 0.5
	savingsWeight = 0.6

	extremeNeedsRatio   = 0.75
	extremeNeedsPenalty = 10
)

// Score rates a month against the 50/30/20 rule on a 0-100 scale. Only
// overspending on needs or wants and under-saving are penalised. Negative
// savings zero the score; needs above 75% of income cost a further 10 points.
func Score(income, needs, wants, savings float64) int {
	if income <= 0 {
		return 0
	}

	n := needs / income
	w := wants / income
	sv := savings / income

	dn := max(0, n-0.5)
	dw := max(0, w-0.3)
	ds := max(0, 0.2-sv)

	score := 100 * (1 - (needsWeight*dn + wantsWeight*dw + savingsWeight*ds))

	if savings < 0 {
		score = 0
	} else if n > extremeNeedsRatio {
		score -= extremeNeedsPenalty
	}

	return int(min(100, max(0, score)))
}

// ScoreSummary scores an aggregated month.
func ScoreSummary(s Summary) int {
	return Score(
		s.Income.InexactFloat64(),
		s.Needs.InexactFloat64(),
		s.Wants.InexactFloat64(),
		s.Savings.InexactFloat64(),
	)
}
