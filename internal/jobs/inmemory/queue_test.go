package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/jobs"
)

func waitForStatus(t *testing.T, s *Store, id string, want jobs.JobStatus) *jobs.AnalysisJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.GetJob(context.Background(), id)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := s.GetJob(context.Background(), id)
	t.Fatalf("job %s did not reach %s, last seen %+v", id, want, job)
	return nil
}

func TestQueue_ProcessesJobs(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 2, store, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(ctx context.Context, job *jobs.AnalysisJob) error {
		switch job.Filename {
		case "bad.xlsx":
			return errors.New("cannot analyse")
		case "panic.xlsx":
			panic("unexpected")
		}
		job.Data = nil
		return nil
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	good := &jobs.AnalysisJob{Filename: "good.xlsx", Data: []byte("x")}
	bad := &jobs.AnalysisJob{Filename: "bad.xlsx"}
	boom := &jobs.AnalysisJob{Filename: "panic.xlsx"}
	for _, j := range []*jobs.AnalysisJob{good, bad, boom} {
		if err := q.PublishAnalysis(ctx, j); err != nil {
			t.Fatalf("PublishAnalysis() error = %v", err)
		}
		if j.JobID == "" || j.CreatedAt.IsZero() {
			t.Fatalf("PublishAnalysis() did not initialise job: %+v", j)
		}
	}

	done := waitForStatus(t, store, good.JobID, jobs.JobStatusCompleted)
	if done.StartedAt == nil || done.CompletedAt == nil || done.Data != nil {
		t.Errorf("completed job = %+v", done)
	}

	failed := waitForStatus(t, store, bad.JobID, jobs.JobStatusFailed)
	if failed.Error != "cannot analyse" {
		t.Errorf("failed job error = %q", failed.Error)
	}

	panicked := waitForStatus(t, store, boom.JobID, jobs.JobStatusFailed)
	if panicked.Error == "" {
		t.Error("panicked job has no error")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := q.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestQueue_Closed(t *testing.T) {
	q := NewQueue(1, 0, nil, zerolog.Nop())
	if err := q.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := q.PublishAnalysis(context.Background(), &jobs.AnalysisJob{}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("PublishAnalysis() error = %v, want ErrQueueClosed", err)
	}
	if err := q.Start(context.Background(), nil); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Start() error = %v, want ErrQueueClosed", err)
	}
}

func TestQueue_PublishRespectsContext(t *testing.T) {
	q := NewQueue(0, 1, nil, zerolog.Nop())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.PublishAnalysis(ctx, &jobs.AnalysisJob{}); !errors.Is(err, context.Canceled) {
		t.Errorf("PublishAnalysis() error = %v, want context.Canceled", err)
	}
}

func TestQueue_FailedPublishMarksJobFailed(t *testing.T) {
	store := NewStore()
	q := NewQueue(0, 1, store, zerolog.Nop())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &jobs.AnalysisJob{Filename: "a.xlsx", Data: []byte("x")}
	if err := q.PublishAnalysis(ctx, job); !errors.Is(err, context.Canceled) {
		t.Fatalf("PublishAnalysis() error = %v, want context.Canceled", err)
	}

	got, err := store.GetJob(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error == "" || got.Data != nil {
		t.Errorf("job = %+v, want failed without data", got)
	}
}

func TestQueue_StopFailsBufferedJobs(t *testing.T) {
	store := NewStore()
	q := NewQueue(3, 1, store, zerolog.Nop())

	var ids []string
	for i := 0; i < 3; i++ {
		job := &jobs.AnalysisJob{Data: []byte("x")}
		if err := q.PublishAnalysis(context.Background(), job); err != nil {
			t.Fatalf("PublishAnalysis() error = %v", err)
		}
		ids = append(ids, job.JobID)
	}

	// Never started, so every job is still buffered.
	if err := q.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	for _, id := range ids {
		got, _ := store.GetJob(context.Background(), id)
		if got.Status != jobs.JobStatusFailed || got.Error != ErrQueueClosed.Error() {
			t.Errorf("job %s = %+v, want failed with %q", id, got, ErrQueueClosed)
		}
	}
}

func TestQueue_CallerJobUntouchedByWorkers(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 4, store, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.Start(ctx, func(ctx context.Context, job *jobs.AnalysisJob) error { return nil }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer q.Close()

	for i := 0; i < 20; i++ {
		job := &jobs.AnalysisJob{Data: []byte("x")}
		if err := q.PublishAnalysis(ctx, job); err != nil {
			t.Fatalf("PublishAnalysis() error = %v", err)
		}
		// Workers run concurrently; under -race any shared write shows here.
		if job.Status != jobs.JobStatusPending || job.StartedAt != nil {
			t.Fatalf("caller job = %+v, want untouched pending job", job)
		}
	}
}
