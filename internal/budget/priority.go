package budget

import (
	"sort"

	"github.com/dvloznov/budget-health/internal/domain"
)

// Focus names an area the user should work on first.
type Focus string

const (
	FocusReduceNeeds     Focus = "reduce_needs"
	FocusReduceWants     Focus = "reduce_wants"
	FocusIncreaseSavings Focus = "increase_savings"
	FocusOptimizeAll     Focus = "optimize_all_categories"
	FocusMaintain        Focus = "maintain_current_balance"
)

// Deviations are bucket ratios minus their 50/30/20 targets. Positive means
// above target.
type Deviations struct {
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// DeviationsOf computes deviations for s.
func DeviationsOf(s Summary) Deviations {
	return Deviations{
		Needs:   s.Ratio(domain.BucketNeeds) - domain.BucketNeeds.Target(),
		Wants:   s.Ratio(domain.BucketWants) - domain.BucketWants.Target(),
		Savings: s.Ratio(domain.BucketSavings) - domain.BucketSavings.Target(),
	}
}

// Priority is the pair of focus areas reported alongside the score.
type Priority struct {
	Primary   Focus  `json:"primary_focus"`
	Secondary Focus  `json:"secondary_focus"`
	Status    string `json:"health_status"`
}

// PriorityOf derives focus areas from the summary and the score's status.
func PriorityOf(s Summary, score int) Priority {
	d := DeviationsOf(s)
	return Priority{
		Primary:   PrimaryFocus(d),
		Secondary: SecondaryFocus(d),
		Status:    HealthStatus(score),
	}
}

type problem struct {
	focus     Focus
	magnitude float64
}

// problems lists overspent needs, overspent wants and under-saving, largest
// first.
func problems(d Deviations) []problem {
	var out []problem
	if d.Needs > 0 {
		out = append(out, problem{FocusReduceNeeds, d.Needs})
	}
	if d.Wants > 0 {
		out = append(out, problem{FocusReduceWants, d.Wants})
	}
	if d.Savings < 0 {
		out = append(out, problem{FocusIncreaseSavings, -d.Savings})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].magnitude > out[j].magnitude
	})
	return out
}

// PrimaryFocus returns the largest problem, or FocusOptimizeAll.
func PrimaryFocus(d Deviations) Focus {
	p := problems(d)
	if len(p) == 0 {
		return FocusOptimizeAll
	}
	return p[0].focus
}

// SecondaryFocus returns the second largest problem, the only problem when
// there is one, or FocusMaintain.
func SecondaryFocus(d Deviations) Focus {
	p := problems(d)
	switch {
	case len(p) > 1:
		return p[1].focus
	case len(p) == 1:
		return p[0].focus
	}
	return FocusMaintain
}

// HealthStatus labels a score: Excellent from 80, Good from 60, else Fair.
func HealthStatus(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	}
	return "Fair"
}
