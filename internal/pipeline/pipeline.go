// Package pipeline runs an uploaded spreadsheet through validation,
// aggregation, scoring and advice.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-health/internal/budget"
	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/validation"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewAnalysisPipeline creates the standard 9-step analysis pipeline.
func NewAnalysisPipeline() *Pipeline {
	return NewPipeline(
		&ParseIncomeStep{},
		&ResolveCurrencyStep{},
		&FetchFileStep{},
		&SizeGuardStep{},
		&ReadTableStep{},
		&ValidateStep{},
		&AggregateStep{},
		&ScoreStep{},
		&AdviseStep{},
	)
}

// Analyze runs the analysis pipeline. Exactly one outcome is returned: a
// report, a failed validation result (no partial analysis), or an error for
// bad income, unknown currency, oversized or unreachable files.
func Analyze(ctx context.Context, deps Deps, req Request) (*Report, *validation.Result, error) {
	state := &PipelineState{Request: req, Deps: deps}
	log := deps.Log.With().Str("filename", req.Filename).Logger()

	err := NewAnalysisPipeline().Execute(ctx, state)
	switch {
	case errors.Is(err, errInvalidTable):
		log.Info().Int("diagnostics", len(state.Validation.Diagnostics)).Msg("upload failed validation")
		return nil, state.Validation, nil
	case err != nil:
		log.Warn().Err(safeError(err)).Msg("analysis failed")
		return nil, nil, err
	}

	log.Info().
		Int("transactions", len(state.Transactions)).
		Int("score", state.Score).
		Str("advice_source", string(state.Advice.Source)).
		Msg("analysis completed")

	return buildReport(state), state.Validation, nil
}

// safeError keeps sentinel causes in logs without echoing user input.
func safeError(err error) error {
	for _, sentinel := range []error{domain.ErrInvalidIncome, ErrUnknownCurrency, ErrFileTooLarge, ErrNoSource, gcs.ErrInvalidURI} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

func buildReport(state *PipelineState) *Report {
	s := state.Summary
	pct := make(map[string]float64, len(domain.Buckets))
	for _, b := range domain.Buckets {
		pct[string(b)] = s.Percent(b)
	}

	return &Report{
		Score:        state.Score,
		Status:       budget.HealthStatus(state.Score),
		Advice:       state.Advice.Text,
		AdviceSource: state.Advice.Source,
		Summary:      s,
		Percentages:  pct,
		Priority:     budget.PriorityOf(s, state.Score),
		Currency:     state.Request.Currency,
		Symbol:       state.Symbol,
		Transactions: len(state.Transactions),
	}
}
