package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP Server
	Port        string `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`

	// Advice generation
	GeminiAPIKey  string        `yaml:"gemini_api_key"`
	GeminiModel   string        `yaml:"gemini_model"`
	AdviceTimeout time.Duration `yaml:"advice_timeout"`

	// Currencies; empty uses the built-in list
	CurrenciesFile string `yaml:"currencies_file"`

	// Logging
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`

	// Google Cloud Storage
	GCSBucket          string `yaml:"gcs_bucket"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`

	// Async analysis jobs
	JobWorkers       int           `yaml:"job_workers"`
	JobQueueSize     int           `yaml:"job_queue_size"`
	JobTTL           time.Duration `yaml:"job_ttl"`
	JobPurgeSchedule string        `yaml:"job_purge_schedule"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:             "8080",
		MaxUploadMB:      5,
		GeminiModel:      "gemini-2.5-flash",
		AdviceTimeout:    15 * time.Second,
		LogLevel:         "info",
		LogFile:          "budget-health.log",
		LogMaxSizeMB:     10,
		LogMaxBackups:    5,
		JobWorkers:       5,
		JobQueueSize:     100,
		JobTTL:           time.Hour,
		JobPurgeSchedule: "@every 5m",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.MaxUploadMB)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.AdviceTimeout = getEnvDuration("ADVICE_TIMEOUT", c.AdviceTimeout)

	c.CurrenciesFile = getEnv("CURRENCIES_FILE", c.CurrenciesFile)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)

	c.GCSBucket = getEnv("GCS_BUCKET", c.GCSBucket)
	c.GCSCredentialsFile = getEnv("GCS_CREDENTIALS_FILE", c.GCSCredentialsFile)

	c.JobWorkers = getEnvInt("JOB_WORKERS", c.JobWorkers)
	c.JobQueueSize = getEnvInt("JOB_QUEUE_SIZE", c.JobQueueSize)
	c.JobTTL = getEnvDuration("JOB_TTL", c.JobTTL)
	c.JobPurgeSchedule = getEnv("JOB_PURGE_SCHEDULE", c.JobPurgeSchedule)
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 100 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d MB: must be between 1 and 100", c.MaxUploadMB))
	}

	if c.AdviceTimeout < time.Second || c.AdviceTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be between 1s and 2m", c.AdviceTimeout))
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	isValidLevel := false
	for _, l := range validLevels {
		if strings.EqualFold(c.LogLevel, l) {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.LogFile != "" {
		if c.LogMaxSizeMB < 1 {
			errors = append(errors, fmt.Sprintf("invalid log max size %d MB: must be at least 1", c.LogMaxSizeMB))
		}
		if c.LogMaxBackups < 0 {
			errors = append(errors, fmt.Sprintf("invalid log max backups %d: must not be negative", c.LogMaxBackups))
		}
	}

	if c.GCSCredentialsFile != "" {
		if _, err := os.Stat(c.GCSCredentialsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("GCS credentials file does not exist: %s", c.GCSCredentialsFile))
		}
	}

	if c.CurrenciesFile != "" {
		if _, err := os.Stat(c.CurrenciesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("currencies file does not exist: %s", c.CurrenciesFile))
		}
	}

	if c.JobWorkers < 1 || c.JobWorkers > 64 {
		errors = append(errors, fmt.Sprintf("invalid job workers %d: must be between 1 and 64", c.JobWorkers))
	}
	if c.JobQueueSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid job queue size %d: must be at least 1", c.JobQueueSize))
	}
	if c.JobTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid job TTL %v: must be at least 1 minute", c.JobTTL))
	}
	if c.JobPurgeSchedule == "" {
		errors = append(errors, "job purge schedule cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
