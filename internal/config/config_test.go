package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "MAX_UPLOAD_MB", "GEMINI_API_KEY", "GEMINI_MODEL",
	"ADVICE_TIMEOUT", "CURRENCIES_FILE", "LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB",
	"LOG_MAX_BACKUPS", "GCS_BUCKET", "GCS_CREDENTIALS_FILE", "JOB_WORKERS",
	"JOB_QUEUE_SIZE", "JOB_TTL", "JOB_PURGE_SCHEDULE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" || cfg.MaxUploadMB != 5 || cfg.AdviceTimeout != 15*time.Second {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.MaxUploadBytes() != 5*1024*1024 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := "port: \"9090\"\nadvice_timeout: 30s\njob_workers: 2\ngemini_model: gemini-test\n"
	if err := os.WriteFile(path, []byte(yamlData), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JOB_WORKERS", "8")
	t.Setenv("JOB_TTL", "2h")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090 from file", cfg.Port)
	}
	if cfg.AdviceTimeout != 30*time.Second {
		t.Errorf("AdviceTimeout = %v, want 30s from file", cfg.AdviceTimeout)
	}
	if cfg.GeminiModel != "gemini-test" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.JobWorkers != 8 {
		t.Errorf("JobWorkers = %d, want 8 from env", cfg.JobWorkers)
	}
	if cfg.JobTTL != 2*time.Hour {
		t.Errorf("JobTTL = %v, want 2h", cfg.JobTTL)
	}
	if cfg.MaxUploadMB != 5 {
		t.Errorf("MaxUploadMB = %d, want default on bad value", cfg.MaxUploadMB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "upload limit too small",
			mutate:      func(c *Config) { c.MaxUploadMB = 0 },
			wantErr:     true,
			errorString: "invalid max upload size 0 MB",
		},
		{
			name:        "advice timeout too short",
			mutate:      func(c *Config) { c.AdviceTimeout = time.Millisecond },
			wantErr:     true,
			errorString: "invalid advice timeout",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "missing credentials file",
			mutate:      func(c *Config) { c.GCSCredentialsFile = "/does/not/exist.json" },
			wantErr:     true,
			errorString: "GCS credentials file does not exist",
		},
		{
			name:        "no workers",
			mutate:      func(c *Config) { c.JobWorkers = 0 },
			wantErr:     true,
			errorString: "invalid job workers 0",
		},
		{
			name: "multiple errors reported together",
			mutate: func(c *Config) {
				c.Port = "0"
				c.JobQueueSize = 0
			},
			wantErr:     true,
			errorString: "invalid job queue size 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}
