package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/advice"
	"github.com/dvloznov/budget-health/internal/config"
	"github.com/dvloznov/budget-health/internal/currency"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/jobs"
	"github.com/dvloznov/budget-health/internal/jobs/inmemory"
	"github.com/dvloznov/budget-health/internal/logger"
	"github.com/dvloznov/budget-health/internal/pipeline"
)

const pollInterval = 100 * time.Millisecond

// worker analyses a batch of spreadsheets concurrently. Arguments are local
// paths or gs:// URIs; every file is scored against the same income.
func main() {
	income := flag.String("income", "", "Monthly income applied to every file")
	code := flag.String("currency", pipeline.DefaultCurrency, "Currency code")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall batch timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.File = cfg.LogFile
	logCfg.MaxSizeMB = cfg.LogMaxSizeMB
	logCfg.MaxBackups = cfg.LogMaxBackups
	log, logCloser := logger.NewWithConfig(logCfg)
	defer logCloser.Close()

	if *income == "" || flag.NArg() == 0 {
		log.Fatal().Msg("Usage: worker -income AMOUNT [-currency CODE] FILE|gs://URI ...")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	registry, err := currency.Load(cfg.CurrenciesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load currencies")
	}

	var gen advice.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := advice.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		gen = g
	}

	deps := pipeline.Deps{
		Adviser:    advice.NewAdvisor(gen, cfg.AdviceTimeout, log),
		Currencies: registry,
		Fetcher:    gcs.NewStorage(cfg.GCSCredentialsFile, cfg.MaxUploadBytes()),
		MaxBytes:   cfg.MaxUploadBytes(),
		Log:        log,
	}

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(flag.NArg(), cfg.JobWorkers, jobStore, log)
	if err := jobQueue.Start(ctx, jobs.NewAnalysisHandler(deps)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}
	defer jobQueue.Close()

	log.Info().Int("files", flag.NArg()).Int("workers", cfg.JobWorkers).Msg("Starting batch")

	ids := make([]string, 0, flag.NArg())
	for _, arg := range flag.Args() {
		job, err := newJob(arg, *income, *code)
		if err != nil {
			log.Error().Err(err).Str("file", arg).Msg("Skipping file")
			continue
		}
		if err := jobQueue.PublishAnalysis(ctx, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to enqueue job")
		}
		ids = append(ids, job.JobID)
	}

	results, err := waitForJobs(ctx, jobStore, ids)
	if err != nil {
		log.Error().Err(err).Msg("Batch interrupted")
	}
	printResults(results, log)
}

func newJob(arg, income, code string) (*jobs.AnalysisJob, error) {
	job := &jobs.AnalysisJob{Income: income, Currency: code}
	if strings.HasPrefix(arg, "gs://") {
		job.GCSURI = arg
		return job, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	job.Filename = filepath.Base(arg)
	job.Data = data
	return job, nil
}

// waitForJobs polls the store until every job has finished or ctx ends.
func waitForJobs(ctx context.Context, store jobs.JobStore, ids []string) ([]*jobs.AnalysisJob, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		results := make([]*jobs.AnalysisJob, 0, len(ids))
		for _, id := range ids {
			job, err := store.GetJob(ctx, id)
			if err != nil {
				return results, err
			}
			if job.Status != jobs.JobStatusCompleted && job.Status != jobs.JobStatusFailed {
				break
			}
			results = append(results, job)
		}
		if len(results) == len(ids) {
			return results, nil
		}

		select {
		case <-ctx.Done():
			return results, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printResults(results []*jobs.AnalysisJob, log zerolog.Logger) {
	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, job := range results {
		if job.Status == jobs.JobStatusFailed {
			failed++
		}
		if err := enc.Encode(job); err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Failed to print result")
		}
	}
	fmt.Fprintf(os.Stderr, "%d analysed, %d failed\n", len(results), failed)
}
