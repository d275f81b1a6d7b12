package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-health/internal/advice"
	"github.com/dvloznov/budget-health/internal/budget"
	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/sheet"
	"github.com/dvloznov/budget-health/internal/validation"
)

// PipelineStep represents a single step in the analysis pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// Step 1: ParseIncomeStep checks the income before any file work is done.
type ParseIncomeStep struct{}

func (s *ParseIncomeStep) Execute(ctx context.Context, state *PipelineState) error {
	income, err := domain.ParseIncome(state.Request.Income)
	if err != nil {
		return err
	}
	state.Income = income
	return nil
}

// Step 2: ResolveCurrencyStep looks up the display symbol.
type ResolveCurrencyStep struct{}

func (s *ResolveCurrencyStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Request.Currency == "" {
		state.Request.Currency = DefaultCurrency
	}
	if state.Deps.Currencies == nil {
		return nil
	}
	symbol, ok := state.Deps.Currencies.Symbol(state.Request.Currency)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, state.Request.Currency)
	}
	state.Symbol = symbol
	return nil
}

// Step 3: FetchFileStep downloads the file when the request names a GCS URI.
type FetchFileStep struct{}

func (s *FetchFileStep) Execute(ctx context.Context, state *PipelineState) error {
	req := &state.Request
	if req.GCSURI == "" {
		if req.Data == nil {
			return ErrNoSource
		}
		return nil
	}
	if _, _, err := gcs.ParseURI(req.GCSURI); err != nil {
		return err
	}
	if state.Deps.Fetcher == nil {
		return fmt.Errorf("FetchFileStep: no storage configured for %s", req.GCSURI)
	}

	data, err := state.Deps.Fetcher.FetchFromGCS(ctx, req.GCSURI)
	if errors.Is(err, gcs.ErrObjectTooLarge) {
		return fmt.Errorf("%w: %s", ErrFileTooLarge, req.GCSURI)
	}
	if err != nil {
		return err
	}
	req.Data = data
	if req.Filename == "" {
		req.Filename = gcs.ExtractFilenameFromGCSURI(req.GCSURI)
	}
	return nil
}

// Step 4: SizeGuardStep rejects oversized files before parsing.
type SizeGuardStep struct{}

func (s *SizeGuardStep) Execute(ctx context.Context, state *PipelineState) error {
	if limit := state.Deps.MaxBytes; limit > 0 && int64(len(state.Request.Data)) > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(state.Request.Data), limit)
	}
	return nil
}

// Step 5: ReadTableStep parses the spreadsheet. Unreadable files are a
// validation failure, not an error.
type ReadTableStep struct{}

func (s *ReadTableStep) Execute(ctx context.Context, state *PipelineState) error {
	t, err := sheet.Read(state.Request.Filename, state.Request.Data)
	if err != nil {
		res := validation.ReadFailure(err)
		state.Validation = &res
		return errInvalidTable
	}
	state.Table = t
	return nil
}

// Step 6: ValidateStep applies the schema rules.
type ValidateStep struct{}

func (s *ValidateStep) Execute(ctx context.Context, state *PipelineState) error {
	res := validation.Validate(state.Table)
	state.Validation = &res
	if !res.Valid {
		return errInvalidTable
	}
	state.Transactions = res.Transactions
	return nil
}

// Step 7: AggregateStep sums the buckets.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Summary = budget.Aggregate(state.Transactions, state.Income)
	return nil
}

// Step 8: ScoreStep computes the health score.
type ScoreStep struct{}

func (s *ScoreStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Score = budget.ScoreSummary(state.Summary)
	return nil
}

// Step 9: AdviseStep attaches advice. It cannot fail.
type AdviseStep struct{}

func (s *AdviseStep) Execute(ctx context.Context, state *PipelineState) error {
	in := advice.Input{Score: state.Score, Summary: state.Summary}
	if state.Deps.Adviser == nil {
		state.Advice = advice.Result{Text: advice.Fallback(in), Source: advice.SourceFallback}
		return nil
	}
	state.Advice = state.Deps.Adviser.Advise(ctx, in)
	return nil
}
