// Package logging configures zerolog for pagefetch.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr so stdout stays free for progress lines.
	Output io.Writer

	// Service is attached to every entry as the "service" field when set.
	Service string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Service: "pagefetch",
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	// Output is shared by concurrent workers
	output = zerolog.SyncWriter(output)
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()

	log.Logger = logger
	return logger
}

// parseLevel converts LogLevel to zerolog.Level, defaulting to info.
func parseLevel(level LogLevel) zerolog.Level {
	normalized := strings.ToLower(strings.TrimSpace(string(level)))
	if normalized == "warning" {
		normalized = "warn"
	}
	switch parsed, err := zerolog.ParseLevel(normalized); {
	case err != nil, normalized == "":
		return zerolog.InfoLevel
	default:
		return parsed
	}
}

// NewLogger creates a logger for the given component from the global logger.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: per-page and per-worker detail
//   - Page requested / fetched, item counts, durations
//   - Worker start/stop
//
// Info: run milestones
//   - First page fetched (total_pages, total_items)
//   - Progress every 50 pages
//   - Run complete (items, expected, complete)
//
// Warn: a page fetch failed (error_class, page)
//
// Error: the run failed and no result was returned
//
// Context Fields:
//   - component: "pagination", "page-client", "cli"
//   - page, worker_id, total_pages, total_items
//   - error_class: transport, client, server, decode, inconsistent
