// Package telemetry provides structured progress logging for the
// engine and CLI layers, generalized from the teacher's
// output.Progress (unstructured fmt.Fprintf-to-stderr) onto log/slog,
// the one stdlib upgrade the pack's own report-generation code
// (intel-PerfSpect/internal/report) already reaches for.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps an slog.Logger with an elapsed-since-start clock, the
// same "time since collection began" framing output.Progress.Log
// printed inline with every message.
type Logger struct {
	slog  *slog.Logger
	start time.Time
}

// New builds a Logger writing structured text to stderr at the given
// level. Pass slog.LevelInfo for normal operation, slog.LevelDebug for
// -v, or a level above slog.LevelError to silence output entirely
// (the --quiet equivalent of output.NewProgress(false)).
func New(level slog.Level) *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{slog: slog.New(h), start: time.Now()}
}

// Discard returns a Logger that drops everything, for tests and
// library callers that don't want progress output.
func Discard() *Logger {
	return &Logger{slog: slog.New(discardHandler{}), start: time.Now()}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

func (l *Logger) elapsed() time.Duration {
	return time.Since(l.start).Round(time.Millisecond)
}

// Info logs a progress message at info level with an "elapsed" attribute.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, append([]any{"elapsed", l.elapsed()}, args...)...)
}

// Debug logs a diagnostic-only message at debug level with an
// "elapsed" attribute. No code in this repository calls it: recovered
// generator panics and probe failures are not logged.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, append([]any{"elapsed", l.elapsed()}, args...)...)
}

// Warn logs a degraded-but-continuing condition, e.g. a probe that
// failed and was recorded as a "<name>_error" sentinel.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, append([]any{"elapsed", l.elapsed()}, args...)...)
}
