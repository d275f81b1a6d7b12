package jobs

import (
	"context"
	"errors"

	"github.com/dvloznov/budget-health/internal/pipeline"
)

// ErrInvalidUpload marks a job whose file failed validation. The job's
// Diagnostics carry the details.
var ErrInvalidUpload = errors.New("upload failed validation")

// NewAnalysisHandler returns a JobHandler that runs the analysis pipeline
// and stores the outcome on the job.
func NewAnalysisHandler(deps pipeline.Deps) JobHandler {
	return func(ctx context.Context, job *AnalysisJob) error {
		report, res, err := pipeline.Analyze(ctx, deps, job.Request())

		// The upload is not needed once analysed.
		job.Data = nil
		job.Income = ""

		if err != nil {
			return err
		}
		if report == nil {
			job.Diagnostics = res.Diagnostics
			return ErrInvalidUpload
		}
		job.Report = report
		return nil
	}
}
