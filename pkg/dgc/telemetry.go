package dgc

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Recorder observes every API call the transport makes. Implementations
// must be safe for concurrent use.
type Recorder interface {
	// Record is called once per request attempt with the HTTP method, the
	// API path (without query), the response status (0 on network failure),
	// the elapsed time, and the resulting error if any.
	Record(method, path string, status int, elapsed time.Duration, err error)
}

// NopRecorder discards all telemetry.
type NopRecorder struct{}

func (NopRecorder) Record(string, string, int, time.Duration, error) {}

// LogRecorder emits one slog entry per request attempt.
type LogRecorder struct {
	Logger *slog.Logger
	// Level for successful calls; failures are always logged at Warn.
	Level slog.Level
}

// NewLogRecorder creates a LogRecorder logging successes at debug level.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{Logger: logger, Level: slog.LevelDebug}
}

func (r *LogRecorder) Record(method, path string, status int, elapsed time.Duration, err error) {
	if err != nil {
		r.Logger.Warn("catalog request failed",
			"method", method, "path", path, "status", status,
			"elapsed", elapsed, "error", err)
		return
	}
	r.Logger.Log(context.Background(), r.Level, "catalog request",
		"method", method, "path", path, "status", status, "elapsed", elapsed)
}

// CountingRecorder accumulates request counters, useful in tests and for
// exposing rough health numbers.
type CountingRecorder struct {
	requests atomic.Int64
	errors   atomic.Int64
	elapsed  atomic.Int64 // nanoseconds
}

func (r *CountingRecorder) Record(_, _ string, _ int, elapsed time.Duration, err error) {
	r.requests.Add(1)
	r.elapsed.Add(int64(elapsed))
	if err != nil {
		r.errors.Add(1)
	}
}

// TelemetrySnapshot is a point-in-time view of a CountingRecorder.
type TelemetrySnapshot struct {
	Requests     int64
	Errors       int64
	TotalElapsed time.Duration
}

// Snapshot returns the current counter values.
func (r *CountingRecorder) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		Requests:     r.requests.Load(),
		Errors:       r.errors.Load(),
		TotalElapsed: time.Duration(r.elapsed.Load()),
	}
}

// MultiRecorder fans telemetry out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(method, path string, status int, elapsed time.Duration, err error) {
	for _, r := range m {
		r.Record(method, path, status, elapsed, err)
	}
}
