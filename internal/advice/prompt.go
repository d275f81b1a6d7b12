package advice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/dvloznov/budget-health/internal/budget"
	"github.com/dvloznov/budget-health/internal/domain"
)

const promptHeader = "You are a 50/30/20 financial advisor. Based on the payload, provide:\n" +
	"- Current state assessment\n" +
	"- 3 specific recommendations with quantified impact\n" +
	"- 1 quick win and 1 long-term habit\n" +
	"Respond with clear headers and bullets. Keep it concise.\n" +
	"PAYLOAD:\n"

type payload struct {
	UserProfile       userProfile       `json:"user_profile"`
	FinancialOverview financialOverview `json:"financial_overview"`
	BudgetBreakdown   bucketSet[share]  `json:"budget_breakdown"`
	DeviationAnalysis bucketSet[drift]  `json:"deviation_analysis"`
	TopWants          []wantsCategory   `json:"top_wants_categories"`
	HealthMetrics     healthMetrics     `json:"health_metrics"`
	PriorityAreas     priorityAreas     `json:"priority_areas"`
}

type userProfile struct {
	Role         string `json:"role"`
	Goal         string `json:"goal"`
	HealthStatus string `json:"health_status"`
}

type financialOverview struct {
	MonthlyIncome        float64 `json:"monthly_income"`
	TotalTrackedSpending float64 `json:"total_tracked_spending"`
	UntrackedAmount      float64 `json:"untracked_amount"`
	CoveragePercentage   float64 `json:"coverage_percentage"`
}

type bucketSet[T any] struct {
	Needs   T `json:"needs"`
	Wants   T `json:"wants"`
	Savings T `json:"savings"`
}

type share struct {
	Amount             float64 `json:"amount"`
	PercentageOfIncome float64 `json:"percentage_of_income"`
	TargetPercentage   int     `json:"target_percentage"`
}

type drift struct {
	DeviationFromTarget float64 `json:"deviation_from_target"`
	Status              string  `json:"status"`
	NeededAdjustment    float64 `json:"needed_adjustment"`
}

type wantsCategory struct {
	Category           string  `json:"category"`
	Amount             float64 `json:"amount"`
	PercentageOfWants  float64 `json:"percentage_of_wants"`
	PercentageOfIncome float64 `json:"percentage_of_income"`
}

type healthMetrics struct {
	OverallScore      int    `json:"overall_score"`
	ScoreOutOf        int    `json:"score_out_of"`
	ScoreCategory     string `json:"score_category"`
	CalculationMethod string `json:"calculation_method"`
}

type priorityAreas struct {
	PrimaryFocus         budget.Focus `json:"primary_focus"`
	SecondaryFocus       budget.Focus `json:"secondary_focus"`
	ImprovementPotential float64      `json:"improvement_potential"`
}

// statusLabel expands HealthStatus for the model.
func statusLabel(score int) string {
	switch budget.HealthStatus(score) {
	case "Excellent":
		return "Excellent - Well-balanced budget"
	case "Good":
		return "Good - Room for optimization"
	}
	return "Fair - Significant rebalancing needed"
}

func buildPayload(in Input) payload {
	s := in.Summary
	income := s.Income.InexactFloat64()
	needs := s.Needs.InexactFloat64()
	wants := s.Wants.InexactFloat64()
	savings := s.Savings.InexactFloat64()
	tracked := s.Total().InexactFloat64()
	dev := budget.DeviationsOf(s)
	status := statusLabel(in.Score)

	coverage := 0.0
	if income > 0 {
		coverage = tracked / income * 100
	}

	p := payload{
		UserProfile: userProfile{
			Role:         "Individual seeking financial optimization using 50/30/20 methodology",
			Goal:         "Achieve optimal 50/30/20 budget allocation",
			HealthStatus: status,
		},
		FinancialOverview: financialOverview{
			MonthlyIncome:        income,
			TotalTrackedSpending: tracked,
			UntrackedAmount:      max(0, income-tracked),
			CoveragePercentage:   coverage,
		},
		BudgetBreakdown: bucketSet[share]{
			Needs:   share{needs, round(s.Percent(domain.BucketNeeds), 1), 50},
			Wants:   share{wants, round(s.Percent(domain.BucketWants), 1), 30},
			Savings: share{savings, round(s.Percent(domain.BucketSavings), 1), 20},
		},
		DeviationAnalysis: bucketSet[drift]{
			Needs:   overDrift(dev.Needs, income),
			Wants:   overDrift(dev.Wants, income),
			Savings: underDrift(dev.Savings, income),
		},
		TopWants: []wantsCategory{},
		HealthMetrics: healthMetrics{
			OverallScore:      in.Score,
			ScoreOutOf:        100,
			ScoreCategory:     status,
			CalculationMethod: "Weighted deviation model (Needs: 20%, Wants: 50%, Savings: 60%)",
		},
		PriorityAreas: priorityAreas{
			PrimaryFocus:         budget.PrimaryFocus(dev),
			SecondaryFocus:       budget.SecondaryFocus(dev),
			ImprovementPotential: round(float64(100-in.Score)/100*income, 2),
		},
	}

	for i, cw := range s.TopWants {
		if i == topWantsInText {
			break
		}
		amount := cw.Amount.InexactFloat64()
		wc := wantsCategory{Category: cw.Category, Amount: amount}
		if wants > 0 {
			wc.PercentageOfWants = round(amount/wants*100, 1)
		}
		if income > 0 {
			wc.PercentageOfIncome = round(amount/income*100, 1)
		}
		p.TopWants = append(p.TopWants, wc)
	}

	return p
}

func overDrift(d, income float64) drift {
	status := "UNDER"
	if d > 0 {
		status = "OVER"
	}
	return drift{round(d*100, 1), status, round(math.Abs(d)*income, 2)}
}

func underDrift(d, income float64) drift {
	status := "OVER"
	if d < 0 {
		status = "UNDER"
	}
	return drift{round(d*100, 1), status, round(math.Abs(d)*income, 2)}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// BuildPrompt renders the instructions followed by the compact JSON payload.
func BuildPrompt(in Input) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(promptHeader)

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(buildPayload(in)); err != nil {
		return "", fmt.Errorf("BuildPrompt: encode payload: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
