// Stage L4: Correlate. Detects causal chains across the L3 pattern
// findings, emitting one combined-evidence finding per detected chain
// instead of N separate ones. Each correlator reads the L3 finding
// lists directly; events are not grouped by (category, component).
package logpipeline

import (
	"time"

	"github.com/google/uuid"
)

// CorrelatedFinding is a causal chain of related Findings reduced to
// one entry with combined evidence.
type CorrelatedFinding struct {
	ID          string
	Type        string
	Priority    Priority
	Description string
	Evidence    []Finding
}

const (
	thermalPanicWindow = 5 * time.Minute
	oomStormWindow     = 60 * time.Second
	diskFailingWindow  = 24 * time.Hour
)

const oomStormThreshold = 3

// Correlate runs stage L4 over the L3 output.
func Correlate(p Patterns) []CorrelatedFinding {
	var out []CorrelatedFinding
	out = append(out, correlateThermalPanic(p)...)
	out = append(out, correlateOOMStorm(p)...)
	out = append(out, correlateDiskFailing(p)...)
	return out
}

// correlateThermalPanic pairs each thermal_throttling finding with every
// kernel_panic at or after it within a 5-minute window. The chain has
// two steps; no separate temperature-warning step is matched before the
// throttling.
func correlateThermalPanic(p Patterns) []CorrelatedFinding {
	var out []CorrelatedFinding
	for _, throttle := range p.Hardware.TemperatureIssues {
		t0 := throttle.Entry.Timestamp
		for _, kp := range p.Kernel.KernelPanics {
			if kp.Entry.Timestamp.Before(t0) {
				continue
			}
			if kp.Entry.Timestamp.Sub(t0) > thermalPanicWindow {
				continue
			}
			out = append(out, CorrelatedFinding{
				ID:          uuid.NewString(),
				Type:        "thermal_throttle_panic",
				Priority:    PriorityCritical,
				Description: "Thermal throttling was followed by a kernel panic within 5 minutes",
				Evidence:    []Finding{throttle, kp},
			})
		}
	}
	return out
}

// correlateOOMStorm aggregates 3+ oom_killer findings within 60s into
// one critical finding.
func correlateOOMStorm(p Patterns) []CorrelatedFinding {
	events := p.Hardware.MemoryIssues
	var out []CorrelatedFinding
	used := make([]bool, len(events))
	for i := range events {
		if used[i] {
			continue
		}
		group := []Finding{events[i]}
		windowEnd := events[i].Entry.Timestamp.Add(oomStormWindow)
		for j := i + 1; j < len(events); j++ {
			if used[j] {
				continue
			}
			if events[j].Entry.Timestamp.After(windowEnd) {
				continue
			}
			group = append(group, events[j])
		}
		if len(group) >= oomStormThreshold {
			for j := i; j < len(events); j++ {
				if !events[j].Entry.Timestamp.After(windowEnd) {
					used[j] = true
				}
			}
			out = append(out, CorrelatedFinding{
				ID:          uuid.NewString(),
				Type:        "oom_storm",
				Priority:    PriorityCritical,
				Description: "Three or more OOM kills occurred within 60 seconds",
				Evidence:    group,
			})
		}
	}
	return out
}

// correlateDiskFailing aggregates any SMART-related log with one
// storage I/O error within 24h into a "replace disk" finding.
func correlateDiskFailing(p Patterns) []CorrelatedFinding {
	var smartFindings, ioFindings []Finding
	for _, f := range p.Hardware.StorageIssues {
		switch f.Type {
		case "io_error":
			ioFindings = append(ioFindings, f)
		case "smart_warning":
			smartFindings = append(smartFindings, f)
		}
	}
	var out []CorrelatedFinding
	for _, smart := range smartFindings {
		for _, io := range ioFindings {
			delta := io.Entry.Timestamp.Sub(smart.Entry.Timestamp)
			if delta < 0 {
				delta = -delta
			}
			if delta > diskFailingWindow {
				continue
			}
			out = append(out, CorrelatedFinding{
				ID:          uuid.NewString(),
				Type:        "disk_failing",
				Priority:    PriorityCritical,
				Description: "SMART warning and a storage I/O error were both observed within 24 hours; replace the disk",
				Evidence:    []Finding{smart, io},
			})
		}
	}
	return out
}
