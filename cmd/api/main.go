package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/budget-health/internal/advice"
	"github.com/dvloznov/budget-health/internal/api"
	"github.com/dvloznov/budget-health/internal/api/handlers"
	"github.com/dvloznov/budget-health/internal/config"
	"github.com/dvloznov/budget-health/internal/currency"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/jobs"
	"github.com/dvloznov/budget-health/internal/jobs/inmemory"
	"github.com/dvloznov/budget-health/internal/logger"
	"github.com/dvloznov/budget-health/internal/pipeline"
)

const shutdownTimeout = 30 * time.Second

func main() {
	port := flag.String("port", "", "HTTP server port (overrides PORT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Invalid configuration")
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.ConsoleLevel = cfg.LogLevel
	logCfg.File = cfg.LogFile
	logCfg.MaxSizeMB = cfg.LogMaxSizeMB
	logCfg.MaxBackups = cfg.LogMaxBackups
	log, logCloser := logger.NewWithConfig(logCfg)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		logCloser.Close()
		os.Exit(1)
	}
	log.Info().Msg("Server exited")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry, err := currency.Load(cfg.CurrenciesFile)
	if err != nil {
		return err
	}

	var gen advice.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := advice.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			return err
		}
		gen = g
	} else {
		log.Warn().Msg("No Gemini API key configured - serving fallback advice only")
	}

	deps := pipeline.Deps{
		Adviser:    advice.NewAdvisor(gen, cfg.AdviceTimeout, log),
		Currencies: registry,
		Fetcher:    gcs.NewStorage(cfg.GCSCredentialsFile, cfg.MaxUploadBytes()),
		MaxBytes:   cfg.MaxUploadBytes(),
		Log:        log,
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobQueueSize, cfg.JobWorkers, jobStore, log)

	purger, err := jobs.StartPurger(jobStore, cfg.JobPurgeSchedule, cfg.JobTTL, log)
	if err != nil {
		return err
	}
	defer purger.Stop()

	if err := jobQueue.Start(ctx, jobs.NewAnalysisHandler(deps)); err != nil {
		return err
	}
	log.Info().Int("workers", cfg.JobWorkers).Msg("Job workers started")

	router := api.NewRouter(api.Handlers{
		Analysis:  handlers.NewAnalysisHandler(deps, jobQueue, cfg.MaxUploadBytes(), log),
		Jobs:      handlers.NewJobsHandler(jobStore, log),
		Reference: handlers.NewReferenceHandler(registry, log),
	}, cfg.MaxUploadBytes(), log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AdviceTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}

		// Stop job queue and wait for in-flight jobs
		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping job queue")
		}
		return jobQueue.Close()
	})

	return g.Wait()
}
