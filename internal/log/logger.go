// Package log is a thin leveled wrapper around log/slog used by every
// prsweep package. The verbosity maps to the -v count on the command line.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Verbosity levels
const (
	LevelQuiet = iota // Default: only errors and warnings
	LevelInfo         // -v: per-repository progress, closures
	LevelDebug        // -vv: API calls, webhook responses
	LevelTrace        // -vvv: per-PR decisions
)

const slogLevelTrace = slog.Level(-8)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	inProgress bool
	progress   bool
)

// Initialize sets up the global logger with the given verbosity, writer and format.
// An unknown format falls back to text.
func Initialize(level int, w io.Writer, format Format) {
	verbosity = level
	output = w

	opts := &slog.HandlerOptions{Level: slogLevel(level)}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger = slog.New(handler)
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	return logger
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if verbosity >= LevelInfo {
		clearProgress()
		logger.Info(msg, args...)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if verbosity >= LevelDebug {
		clearProgress()
		logger.Debug(msg, args...)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if verbosity >= LevelTrace {
		clearProgress()
		logger.Log(context.Background(), slogLevelTrace, msg, args...)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	clearProgress()
	logger.Warn(msg, args...)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	clearProgress()
	logger.Error(msg, args...)
}

// EnableProgress turns carriage-return progress lines on or off. They are
// off by default since they only make sense on a terminal.
func EnableProgress(enabled bool) {
	progress = enabled
}

// Progress prints a carriage-return progress line at info level or higher.
func Progress(format string, args ...any) {
	if progress && verbosity >= LevelInfo {
		inProgress = true
		_, _ = fmt.Fprintf(output, "\r\033[K"+format, args...)
	}
}

// ProgressDone ends the current progress line.
func ProgressDone() {
	if inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	return verbosity >= LevelDebug
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	return verbosity
}

func init() {
	Initialize(LevelQuiet, os.Stderr, FormatText)
}
