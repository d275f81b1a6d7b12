package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 15 * time.Second

// Source tells where the advice text came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is the advice returned to callers.
type Result struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Advisor produces advice, preferring the generator and falling back to the
// templates on any failure.
type Advisor struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
}

// NewAdvisor creates an Advisor. gen may be nil, in which case every call
// returns fallback advice. A non-positive timeout selects DefaultTimeout.
func NewAdvisor(gen Generator, timeout time.Duration, log zerolog.Logger) *Advisor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Advisor{gen: gen, timeout: timeout, log: log}
}

// Advise never fails. Errors are logged by type only so that neither
// financial figures nor credentials reach the logs.
func (a *Advisor) Advise(ctx context.Context, in Input) Result {
	fallback := Result{Text: Fallback(in), Source: SourceFallback}

	if a.gen == nil {
		a.log.Debug().Msg("no advice generator configured, using fallback advice")
		return fallback
	}

	prompt, err := BuildPrompt(in)
	if err != nil {
		a.log.Error().Str("error_type", errorType(err)).Msg("building advice prompt failed, using fallback advice")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		a.log.Warn().Str("error_type", errorType(err)).Msg("advice request failed, using fallback advice")
		return fallback
	}

	return Result{Text: text, Source: SourceModel}
}

func errorType(err error) string {
	return fmt.Sprintf("%T", err)
}
