package pipeline

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-health/internal/advice"
	"github.com/dvloznov/budget-health/internal/budget"
	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/sheet"
	"github.com/dvloznov/budget-health/internal/validation"
)

// DefaultCurrency is used when a request names no currency.
const DefaultCurrency = "GBP"

var (
	// ErrFileTooLarge is returned for uploads over Deps.MaxBytes.
	ErrFileTooLarge = errors.New("file exceeds upload limit")

	// ErrUnknownCurrency is returned for codes missing from the registry.
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrNoSource is returned when a request carries neither data nor a URI.
	ErrNoSource = errors.New("no file supplied")

	// errInvalidTable stops the chain once validation has produced
	// diagnostics. Analyze turns it into a validation result.
	errInvalidTable = errors.New("table failed validation")
)

// Deps are the collaborators an analysis needs. Fetcher may be nil when
// requests never carry a GCS URI; a nil Adviser yields fallback advice.
type Deps struct {
	Adviser    Adviser
	Currencies CurrencyLookup
	Fetcher    Fetcher
	MaxBytes   int64
	Log        zerolog.Logger
}

// Request is one analysis: a file (inline or by gs:// URI), the monthly
// income as typed by the user and a currency code.
type Request struct {
	Filename string
	Data     []byte
	GCSURI   string
	Income   string
	Currency string
}

// Report is the result of a successful analysis.
type Report struct {
	Score        int                `json:"score"`
	Status       string             `json:"health_status"`
	Advice       string             `json:"advice"`
	AdviceSource advice.Source      `json:"advice_source"`
	Summary      budget.Summary     `json:"summary"`
	Percentages  map[string]float64 `json:"percentages"`
	Priority     budget.Priority    `json:"priority"`
	Currency     string             `json:"currency"`
	Symbol       string             `json:"symbol"`
	Transactions int                `json:"transactions"`
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Request Request
	Deps    Deps

	Income       decimal.Decimal
	Symbol       string
	Table        *sheet.Table
	Validation   *validation.Result
	Transactions []domain.Transaction
	Summary      budget.Summary
	Score        int
	Advice       advice.Result
}
