// Package advice turns a scored budget into short written guidance, either
// from a text-generation model or from fixed templates.
package advice

import (
	"fmt"
	"strings"

	"github.com/dvloznov/budget-health/internal/budget"
	"github.com/dvloznov/budget-health/internal/domain"
)

// Input is everything advice is derived from. Score is always computed
// locally and never taken from a model.
type Input struct {
	Score   int
	Summary budget.Summary
}

// topWantsInText is how many Wants categories are quoted in advice.
const topWantsInText = 3

// scoreBands are the exclusive upper bounds selecting a template; scores at
// or above the last bound use the final template.
var scoreBands = []int{40, 55, 65, 70, 75, 80, 85, 90, 95}

// Fallback returns deterministic advice for in. It is used whenever the
// model is unavailable and is safe to call with zero income.
func Fallback(in Input) string {
	s := in.Summary
	np := s.Percent(domain.BucketNeeds)
	wp := s.Percent(domain.BucketWants)
	sp := s.Percent(domain.BucketSavings)
	top := topWantsText(s)

	templates := []string{
		fmt.Sprintf("Based on your 50/30/20 analysis, tighten wants spending and lift savings to reach your 20%% target."+
			" Needs: %.1f%% (50%% target), Wants: %.1f%% (30%% target), Savings: %.1f%% (20%% target).", np, wp, sp),
		fmt.Sprintf("Your score shows room to rebalance: trim non-essentials and redirect to savings until you hit 20%%."+
			" Current split: Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("Focus on two actions: reduce wants by 5-10%% and move that to savings; keep needs near 50%%."+
			" Snapshot: Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("Bring wants closer to 30%% and push savings toward 20%%. Start with your top wants categories: %s.", top),
		fmt.Sprintf("Solid start. Nudge savings up by trimming the largest wants categories and automate a monthly transfer to savings."+
			" Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("Good balance. To reach Excellent, aim for Wants at or below 30%% and Savings of at least 20%%. Keep Needs near 50%%."+
			" Current: Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("Efficiency tweak: freeze one or two discretionary categories for 30 days and divert that amount to savings."+
			" Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("If income is volatile, pre-commit a fixed savings share on payday and cap wants at 30%%."+
			" Present mix: Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
		fmt.Sprintf("Close the gap by targeting the top 3 wants categories: %s. Reallocate at least half of those amounts to savings.", top),
		fmt.Sprintf("Great trajectory. Lock in a minimum 20%% savings auto-transfer and keep wants under 30%% to maintain an Excellent score."+
			" Needs %.1f%%, Wants %.1f%%, Savings %.1f%%.", np, wp, sp),
	}

	return templates[templateIndex(in.Score)]
}

func templateIndex(score int) int {
	for i, bound := range scoreBands {
		if score < bound {
			return i
		}
	}
	return len(scoreBands)
}

func topWantsText(s budget.Summary) string {
	if len(s.TopWants) == 0 {
		return "No dominant wants categories"
	}

	n := min(len(s.TopWants), topWantsInText)
	parts := make([]string, 0, n)
	for _, cw := range s.TopWants[:n] {
		pct := 0.0
		if s.Income.IsPositive() {
			pct = cw.Amount.Div(s.Income).InexactFloat64() * 100
		}
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", cw.Category, pct))
	}
	return strings.Join(parts, ", ")
}
