package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// Config controls where logs go. Console output is for operators and only
// carries warnings and above by default; the file keeps the full record.
type Config struct {
	Level        string // minimum level for the file, e.g. "info"
	ConsoleLevel string // minimum level for the console, e.g. "warn"
	File         string // empty disables file logging
	MaxSizeMB    int
	MaxBackups   int
}

// DefaultConfig rotates budget-health.log at 10 MB keeping five backups.
func DefaultConfig() Config {
	return Config{
		Level:        "info",
		ConsoleLevel: "warn",
		File:         "budget-health.log",
		MaxSizeMB:    10,
		MaxBackups:   5,
	}
}

// New creates a console logger with default configuration
func New() zerolog.Logger {
	return NewWithWriter(consoleWriter(os.Stdout))
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// NewWithConfig creates a logger writing to the console and, if cfg.File is
// set, to a size-rotated file. Each sink filters by its own level. The
// returned closer releases the log file.
func NewWithConfig(cfg Config) (zerolog.Logger, io.Closer) {
	fileLevel := parseLevel(cfg.Level, zerolog.InfoLevel)
	consoleLevel := parseLevel(cfg.ConsoleLevel, zerolog.WarnLevel)

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: consoleWriter(os.Stderr)},
			Level:  consoleLevel,
		},
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		closer = rotating
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: rotating},
			Level:  fileLevel,
		})
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(min(fileLevel, consoleLevel)).
		With().Timestamp().Str("service", "budget-health").Logger()
	return log, closer
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

func parseLevel(s string, def zerolog.Level) zerolog.Level {
	if s == "" {
		return def
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return def
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New()
}

// WithFields adds structured fields to a logger
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
