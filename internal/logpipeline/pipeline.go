// Pipeline composes the four log-pipeline stages into one Run call,
// mirroring the teacher's Orchestrator.Run composition style:
// sequential phases, deterministic sort before returning.
package logpipeline

import (
	"context"
	"sort"
	"time"

	"github.com/infenix/sysdiag/internal/probe"
)

// Options configures one pipeline run.
type Options struct {
	Sources []string // defaults to every known source if empty
	Since   time.Duration
	TopN    int // defaults to 50
}

var defaultSources = []string{"journald", "syslog", "kern.log", "auth.log", "mail.log", "daemon.log", "cron.log", "dmesg"}

// IssueBucket holds the top-N findings of one severity bucket plus the
// total count observed (which may exceed len(Items)).
type IssueBucket struct {
	Count int
	Items []CorrelatedFinding
}

// Summary carries the distribution statistics spec's
// summary.statistics requires.
type Summary struct {
	BySeverity map[Severity]int
	ByFacility map[string]int
	BySource   map[string]int
	TimeRange  TimeRange
}

// TimeRange is the [Oldest, Newest] span of the analyzed entries.
type TimeRange struct {
	Oldest time.Time
	Newest time.Time
}

// LogAnalysis is the pipeline's final output, matching spec's
// LogAnalysis type.
type LogAnalysis struct {
	Entries     []LogEntry
	Patterns    Patterns
	Correlated  []CorrelatedFinding
	Issues      map[string]IssueBucket // keyed "critical", "high", "medium", "low"
	Summary     Summary
	HealthScore int
}

// Run executes stages L1-L4 in order and assembles the final
// LogAnalysis.
func Run(ctx context.Context, src probe.Source, opts Options) (LogAnalysis, error) {
	sources := opts.Sources
	if len(sources) == 0 {
		sources = defaultSources
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = 50
	}

	entries, err := Parse(ctx, src, sources, opts.Since, time.Now())
	if err != nil {
		return LogAnalysis{}, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.Before(entries[j].Timestamp) })

	classified := Classify(entries)
	patterns := Detect(classified)
	correlated := Correlate(patterns)

	issues := bucketBySeverity(patterns, correlated, topN)
	summary := summarize(entries)
	health := healthScore(issues)

	return LogAnalysis{
		Entries:     entries,
		Patterns:    patterns,
		Correlated:  correlated,
		Issues:      issues,
		Summary:     summary,
		HealthScore: health,
	}, nil
}

func allFindings(p Patterns) []Finding {
	var all []Finding
	h := p.Hardware
	all = append(all, h.CPUIssues...)
	all = append(all, h.MemoryIssues...)
	all = append(all, h.StorageIssues...)
	all = append(all, h.NetworkIssues...)
	all = append(all, h.TemperatureIssues...)
	all = append(all, h.PowerIssues...)
	k := p.Kernel
	all = append(all, k.KernelPanics...)
	all = append(all, k.Oops...)
	all = append(all, k.Warnings...)
	all = append(all, k.Bugs...)
	all = append(all, k.Tainted...)
	all = append(all, k.CallTraces...)
	return all
}

func findingKey(f Finding) string {
	return f.Type + "|" + f.Entry.Timestamp.String() + "|" + f.Entry.Message
}

func bucketBySeverity(p Patterns, correlated []CorrelatedFinding, topN int) map[string]IssueBucket {
	consumed := map[string]bool{}
	for _, cf := range correlated {
		for _, f := range cf.Evidence {
			consumed[findingKey(f)] = true
		}
	}

	buckets := map[string][]CorrelatedFinding{
		"critical": {}, "high": {}, "medium": {}, "low": {},
	}
	for _, f := range allFindings(p) {
		if consumed[findingKey(f)] {
			continue
		}
		cf := CorrelatedFinding{ID: "", Type: f.Type, Priority: f.Priority, Description: f.Description, Evidence: []Finding{f}}
		buckets[string(f.Priority)] = append(buckets[string(f.Priority)], cf)
	}
	for _, cf := range correlated {
		buckets[string(cf.Priority)] = append(buckets[string(cf.Priority)], cf)
	}

	out := make(map[string]IssueBucket, len(buckets))
	for sev, items := range buckets {
		count := len(items)
		if count > topN {
			items = items[:topN]
		}
		out[sev] = IssueBucket{Count: count, Items: items}
	}
	return out
}

func summarize(entries []LogEntry) Summary {
	s := Summary{
		BySeverity: map[Severity]int{},
		ByFacility: map[string]int{},
		BySource:   map[string]int{},
	}
	for i, e := range entries {
		s.BySeverity[e.Severity]++
		s.ByFacility[e.Facility]++
		s.BySource[e.Source]++
		if i == 0 {
			s.TimeRange.Oldest = e.Timestamp
			s.TimeRange.Newest = e.Timestamp
			continue
		}
		if e.Timestamp.Before(s.TimeRange.Oldest) {
			s.TimeRange.Oldest = e.Timestamp
		}
		if e.Timestamp.After(s.TimeRange.Newest) {
			s.TimeRange.Newest = e.Timestamp
		}
	}
	return s
}

// healthScore computes max(0, 100 - 30*#critical - 10*#high - 3*#medium - 1*#low).
func healthScore(issues map[string]IssueBucket) int {
	score := 100 - 30*issues["critical"].Count - 10*issues["high"].Count - 3*issues["medium"].Count - issues["low"].Count
	if score < 0 {
		score = 0
	}
	return score
}
