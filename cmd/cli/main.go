package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/advice"
	"github.com/dvloznov/budget-health/internal/config"
	"github.com/dvloznov/budget-health/internal/currency"
	"github.com/dvloznov/budget-health/internal/domain"
	"github.com/dvloznov/budget-health/internal/gcs"
	"github.com/dvloznov/budget-health/internal/logger"
	"github.com/dvloznov/budget-health/internal/pipeline"
	"github.com/dvloznov/budget-health/internal/sheet"
	"github.com/dvloznov/budget-health/internal/validation"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

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

	switch os.Args[1] {
	case "analyze":
		runAnalyze(cfg, log)
	case "validate":
		runValidate(log)
	case "template":
		runTemplate(log)
	case "upload":
		runUpload(cfg, log)
	case "currencies":
		runCurrencies(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Budget Health CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze     Score a budget spreadsheet against the 50/30/20 rule")
	fmt.Println("  validate    Check a spreadsheet and list its problems")
	fmt.Println("  template    Write the sample budget workbook")
	fmt.Println("  upload      Upload a spreadsheet to GCS")
	fmt.Println("  currencies  List supported currency codes")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local .xlsx, .xls or .csv file")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the spreadsheet (instead of -file)")
	income := fs.String("income", "", "Monthly income")
	code := fs.String("currency", pipeline.DefaultCurrency, "Currency code")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(os.Args[2:])

	if (*filePath == "") == (*gcsURI == "") || *income == "" {
		log.Fatal().Msg("Usage: cli analyze (-file PATH | -gcs-uri URI) -income AMOUNT [-currency CODE]")
	}

	registry, err := currency.Load(cfg.CurrenciesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load currencies")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var gen advice.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := advice.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		gen = g
	}

	req := pipeline.Request{
		GCSURI:   *gcsURI,
		Income:   *income,
		Currency: *code,
	}
	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read file")
		}
		req.Filename = filepath.Base(*filePath)
		req.Data = data
	}

	deps := pipeline.Deps{
		Adviser:    advice.NewAdvisor(gen, cfg.AdviceTimeout, log),
		Currencies: registry,
		Fetcher:    gcs.NewStorage(cfg.GCSCredentialsFile, cfg.MaxUploadBytes()),
		MaxBytes:   cfg.MaxUploadBytes(),
		Log:        log,
	}

	report, res, err := pipeline.Analyze(ctx, deps, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}
	if report == nil {
		printDiagnostics(os.Stdout, res.Diagnostics)
		os.Exit(2)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
		return
	}
	printReport(os.Stdout, report)
}

func runValidate(log zerolog.Logger) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local .xlsx, .xls or .csv file")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Usage: cli validate -file PATH")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	res := validation.ValidateFile(filepath.Base(*filePath), data)
	if !res.Valid {
		printDiagnostics(os.Stdout, res.Diagnostics)
		os.Exit(2)
	}
	fmt.Printf("%s is valid: %d transactions.\n", *filePath, len(res.Transactions))
}

func runTemplate(log zerolog.Logger) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	out := fs.String("out", "budget_template.xlsx", "Output path")
	fs.Parse(os.Args[2:])

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create output file")
	}
	if err := sheet.WriteTemplate(f); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("Failed to write template")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to close output file")
	}

	fmt.Printf("Template written to %s\n", *out)
}

func runUpload(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", cfg.GCSBucket, "GCS bucket name (or set GCS_BUCKET)")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local spreadsheet")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Msg("Uploading file to GCS")

	store := gcs.NewStorage(cfg.GCSCredentialsFile, cfg.MaxUploadBytes())
	if err := store.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runCurrencies(cfg *config.Config, log zerolog.Logger) {
	registry, err := currency.Load(cfg.CurrenciesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load currencies")
	}
	for _, c := range registry.All() {
		fmt.Printf("%-4s %s\n", c.Code, c.Symbol)
	}
}

func printDiagnostics(w io.Writer, diags []domain.Diagnostic) {
	fmt.Fprintf(w, "Found %d problem(s):\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

func printReport(w io.Writer, r *pipeline.Report) {
	s := r.Summary
	fmt.Fprintf(w, "Health score: %d/100 (%s)\n\n", r.Score, r.Status)
	fmt.Fprintf(w, "Income:  %s%s\n", r.Symbol, s.Income.StringFixed(2))
	for _, b := range domain.Buckets {
		fmt.Fprintf(w, "%-8s %s%s  %5.1f%% (target %.0f%%)\n",
			string(b)+":", r.Symbol, s.Amount(b).StringFixed(2), s.Percent(b), b.Target()*100)
	}
	if len(s.TopWants) > 0 {
		fmt.Fprintln(w, "\nTop wants:")
		for _, c := range s.TopWants {
			fmt.Fprintf(w, "  %-20s %s%s\n", c.Category, r.Symbol, c.Amount.StringFixed(2))
		}
	}
	fmt.Fprintf(w, "\nFocus: %s, then %s\n", r.Priority.Primary, r.Priority.Secondary)
	fmt.Fprintf(w, "\n%s\n", r.Advice)
}
