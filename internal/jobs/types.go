package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/pipeline"
)

// ErrJobNotFound is returned by stores for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeAnalyzeBudget runs the budget analysis pipeline on an upload.
	JobTypeAnalyzeBudget JobType = "analyze_budget"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job produced a report.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed or the upload was invalid.
	JobStatusFailed JobStatus = "failed"
)

// AnalysisJob is one asynchronous budget analysis. The uploaded bytes and
// income are inputs only and are never serialized.
type AnalysisJob struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename,omitempty"`
	GCSURI   string `json:"gcs_uri,omitempty"`
	Currency string `json:"currency,omitempty"`

	Data   []byte `json:"-"`
	Income string `json:"-"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	Report      *pipeline.Report    `json:"report,omitempty"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *AnalysisJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *AnalysisJob) GetType() JobType {
	return JobTypeAnalyzeBudget
}

// GetStatus implements the Job interface.
func (j *AnalysisJob) GetStatus() JobStatus {
	return j.Status
}

// Request converts the job into a pipeline request.
func (j *AnalysisJob) Request() pipeline.Request {
	return pipeline.Request{
		Filename: j.Filename,
		Data:     j.Data,
		GCSURI:   j.GCSURI,
		Income:   j.Income,
		Currency: j.Currency,
	}
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishAnalysis enqueues an analysis job.
	PublishAnalysis(ctx context.Context, job *AnalysisJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. It may record results on the job; a returned
// error marks the job failed. Jobs are not retried.
type JobHandler func(ctx context.Context, job *AnalysisJob) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *AnalysisJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*AnalysisJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*AnalysisJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error

	// PurgeOlderThan deletes jobs that are not running and were created
	// before cutoff, and returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
