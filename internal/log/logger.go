// Package log provides structured logging for squatcheck.
//
// Logger is a small interface backed by log/slog. Packages that log accept
// a Logger through functional options and fall back to the process default,
// which is a no-op until the CLI installs a real one.
//
// Scan results always go to stdout; log records always go to stderr so
// that JSON reports stay machine-readable.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Logger is the interface for structured logging.
// Methods match slog's signature.
type Logger interface {
	// Debug logs per-dependency scoring details and catalog loading.
	Debug(msg string, args ...any)

	// Info logs run-level context such as the resolved threshold.
	Info(msg string, args ...any)

	// Warn logs recoverable problems, e.g. a skipped dependency.
	Warn(msg string, args ...any)

	// Error logs failures that stop a scan.
	Error(msg string, args ...any)

	// With returns a Logger that adds the given attributes to every record.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewText creates a Logger writing slog text records at or above level to w.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the process-wide logger, a no-op until SetDefault is called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger. Call it once from main
// after the verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if l == nil {
		l = noopLogger{}
	}
	defaultLogger = l
}

// LevelCritical sits above slog.LevelError so that "CRITICAL" suppresses
// ordinary errors.
const LevelCritical = slog.LevelError + 4

// LevelNames lists the names accepted by ParseLevel, lowest first.
var LevelNames = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// ParseLevel converts a level name to a slog.Level. Matching is
// case-insensitive and accepts WARN as an alias for WARNING.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (valid: %s)", name, strings.Join(LevelNames, ", "))
	}
}
