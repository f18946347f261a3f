// Package engine implements the engine façade: diagnose,
// interpret_query, generate_recommendations, run_hardware_diagnostics,
// the Go counterparts of original_source/infenix/interfaces.py's
// DiagnosticsProvider ABC. It is the one layer that knows about every
// other package — probe, analyzer, logpipeline, recommend — and
// translates between their independent domain types; none of those
// packages imports engine.
package engine

import (
	"time"

	"github.com/infenix/sysdiag/internal/analyzer"
	"github.com/infenix/sysdiag/internal/logpipeline"
	"github.com/infenix/sysdiag/internal/recommend"
)

// Diagnostic is spec's Diagnostic type: the full snapshot diagnose()
// returns.
type Diagnostic struct {
	Hardware        map[string]analyzer.Result
	KernelConfig    analyzer.Result
	LogAnalysis     *logpipeline.LogAnalysis
	Recommendations []recommend.Recommendation
	Explanation     string
}

// QueryInterpretation is interpret_query's result: the classified
// intent plus whatever slots a keyword match extracted.
type QueryInterpretation struct {
	Intent    string // hardware, kernel, logs, performance, diagnostic, general
	Component string
	Timeframe string
	Severity  string
}

// RecommendationReport is generate_recommendations's payload.
type RecommendationReport struct {
	Recommendations []recommend.Recommendation
	Guides          []recommend.ImplementationGuide
	Summary         map[string]int
}

// HealthReport is run_hardware_diagnostics's payload.
type HealthReport struct {
	Status          string // passed, failed
	Results         map[string]analyzer.Result
	Issues          []string
	Recommendations []recommend.Recommendation
	Timestamp       string
}

// Envelope is the uniform wrapper every façade operation returns —
// "no exception escapes this boundary" per spec.md §6.
type Envelope struct {
	Success  bool
	Payload  any
	Error    string
	Metadata Metadata
}

// Metadata carries the envelope's one required field.
type Metadata struct {
	GeneratedAt time.Time
}

func ok(payload any) Envelope {
	return Envelope{Success: true, Payload: payload, Metadata: Metadata{GeneratedAt: time.Now().UTC()}}
}

func failed(err error) Envelope {
	return Envelope{Success: false, Error: err.Error(), Metadata: Metadata{GeneratedAt: time.Now().UTC()}}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
