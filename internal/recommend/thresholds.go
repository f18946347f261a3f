// Package recommend implements the recommendation engine: hardware
// profiling, a four-layer rule base, and the six-step pipeline
// (generate -> prioritize -> dedup -> explain -> guides -> summarize)
// that turns a diagnostic snapshot into prioritized, explained
// recommendations.
package recommend

// Thresholds is the fixed constant table spec's recommendation engine
// reads; callers never configure it.
type Thresholds struct {
	CPUTempWarning, CPUTempCritical         float64
	CPULoadPerCoreWarning, CPULoadPerCoreCritical float64
	MemoryUsageWarning, MemoryUsageCritical float64
	SwapUsageWarning                        float64
	DiskUsageWarning, DiskUsageCritical     float64
	ErrorFrequencyWarning                   int
}

// DefaultThresholds is the single fixed table spec.md §4.5 names.
var DefaultThresholds = Thresholds{
	CPUTempWarning:             75,
	CPUTempCritical:            85,
	CPULoadPerCoreWarning:      1.5,
	CPULoadPerCoreCritical:     2.0,
	MemoryUsageWarning:         85,
	MemoryUsageCritical:        95,
	SwapUsageWarning:           50,
	DiskUsageWarning:           85,
	DiskUsageCritical:          95,
	ErrorFrequencyWarning:      10,
}
