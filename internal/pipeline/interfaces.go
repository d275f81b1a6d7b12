package pipeline

import (
	"context"

	"github.com/dvloznov/budget-health/internal/advice"
)

// Adviser produces advice for a scored summary. *advice.Advisor satisfies it.
type Adviser interface {
	Advise(ctx context.Context, in advice.Input) advice.Result
}

// Fetcher downloads an uploaded file from object storage.
// gcs.StorageService satisfies it.
type Fetcher interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}

// CurrencyLookup resolves display symbols. *currency.Registry satisfies it.
type CurrencyLookup interface {
	Symbol(code string) (string, bool)
}
