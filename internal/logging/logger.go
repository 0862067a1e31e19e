// =============================================================================
// Quotation Generator - Logging Module
// =============================================================================
//
// Builds the process logger on log/slog. The console handler is chosen by
// format:
//   - pretty: charmbracelet/log, for interactive use
//   - text:   slog text handler
//   - json:   slog JSON handler
//
// When a log file is enabled, records are also written as JSON to a rolling
// file. Contact details (e-mail, phone, tax IDs) are redacted on every sink.
//
// =============================================================================

package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // pretty, text, json
	File   FileConfig
}

// FileConfig configures the rolling log file.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New creates a logger writing to w and, when enabled, to the log file.
// The returned close function flushes and closes the file sink.
func New(cfg Config, w io.Writer) (*slog.Logger, func() error) {
	level := parseLevel(cfg.Level)
	replace := NewReplaceAttr()

	console := consoleHandler(cfg.Format, w, level, replace)
	if !cfg.File.Enabled {
		return slog.New(console), func() error { return nil }
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.File.Path,
		MaxSize:    cfg.File.MaxSizeMB,
		MaxBackups: cfg.File.MaxBackups,
		MaxAge:     cfg.File.MaxAgeDays,
	}
	file := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level, ReplaceAttr: replace})

	return slog.New(NewMultiHandler(console, file)), sink.Close
}

func consoleHandler(format string, w io.Writer, level slog.Level, replace func([]string, slog.Attr) slog.Attr) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replace}

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "text":
		return slog.NewTextHandler(w, opts)
	default:
		pretty := log.NewWithOptions(w, log.Options{
			Level:           slogToCharmLevel(level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		})
		return &replaceHandler{next: pretty, replace: replace}
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func slogToCharmLevel(level slog.Level) log.Level {
	switch {
	case level < slog.LevelInfo:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}
