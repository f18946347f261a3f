package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrioritize_OrdersByWeight(t *testing.T) {
	recs := []Recommendation{
		{Priority: "low"},
		{Priority: "critical"},
		{Priority: "medium"},
		{Priority: "high"},
	}
	recs = prioritize(recs)
	require.Equal(t, []string{"critical", "high", "medium", "low"}, []string{
		recs[0].Priority, recs[1].Priority, recs[2].Priority, recs[3].Priority,
	})
}

func TestDeduplicate_CollapsesSameKey(t *testing.T) {
	recs := []Recommendation{
		{Component: "cpu", Action: "Reduce CPU load", Category: "stability", Priority: "critical"},
		{Component: "cpu", Action: "Reduce CPU load", Category: "stability", Priority: "critical"},
		{Component: "memory", Action: "Free memory", Category: "stability", Priority: "critical"},
	}
	out := deduplicate(recs)
	require.Len(t, out, 2)
}

func TestExplain_AppendsClosingSentence(t *testing.T) {
	recs := []Recommendation{
		{Details: "Load is high.", Urgency: "immediate"},
		{Details: "Plan ahead.", Urgency: "unknown_urgency"},
	}
	recs = explain(recs)
	require.Contains(t, recs[0].Explanation, "Load is high.")
	require.Contains(t, recs[0].Explanation, "Act on this now")
	require.Contains(t, recs[1].Explanation, urgencyClosing["when_convenient"])
}

func TestBuildGuides_TopFiveAndDifficulty(t *testing.T) {
	recs := []Recommendation{
		{Component: "kernel", Action: "a", Priority: "critical"},
		{Component: "cpu", Action: "b", Priority: "high"},
		{Component: "system", Action: "c", Priority: "medium"},
		{Component: "memory", Action: "d", Priority: "low"},
		{Component: "storage", Action: "e", Priority: "low"},
		{Component: "network", Action: "f", Priority: "low"},
	}
	guides := buildGuides(recs)
	require.Len(t, guides, 5)
	require.Equal(t, "Advanced", guides[0].Difficulty)
	require.Equal(t, "Intermediate", guides[1].Difficulty)
	require.Equal(t, "Beginner", guides[2].Difficulty)
}

func TestRun_EndToEnd(t *testing.T) {
	in := Input{
		Hardware: HardwareInfo{
			CPUModelName: "Intel Core i7 Mobile",
			CPUCores:     8,
			MemoryKB:     2 * kbPerGiB,
			Disks:        []DiskInfo{{Name: "sda", IsSSD: false}},
			Interfaces:   []InterfaceInfo{{Wireless: true}},
			GPUs:         []GPUInfo{{Vendor: "Intel"}},
		},
		Metrics: Metrics{
			CPULoadPerCore:    2.5,
			HasCPUTemp:        true,
			CPUTempC:          90,
			MemoryUsedPercent: 96,
			DiskUsagePercent:  map[string]float64{"/": 97},
		},
		KConfig: []KConfigFinding{
			{Option: "CONFIG_STRICT_KERNEL_RWX", Category: "security", Present: false, Recommended: "y", Description: "hardens kernel text"},
		},
		Logs: LogSummary{CriticalCount: 1},
	}

	result := Run(in)

	require.NotEmpty(t, result.Recommendations)
	require.LessOrEqual(t, len(result.Guides), 5)
	require.Equal(t, "critical", result.Recommendations[0].Priority)
	require.Equal(t, len(result.Recommendations), result.Summary["total"])

	for _, r := range result.Recommendations {
		require.NotEmpty(t, r.Explanation)
	}

	for i := 1; i < len(result.Recommendations); i++ {
		require.GreaterOrEqual(t, priorityWeight[result.Recommendations[i-1].Priority], priorityWeight[result.Recommendations[i].Priority])
	}
}

func TestRun_DefaultsThresholdsWhenZero(t *testing.T) {
	in := Input{
		Hardware: HardwareInfo{CPUCores: 4, MemoryKB: 8 * kbPerGiB},
		Metrics:  Metrics{CPULoadPerCore: 3.0},
	}
	result := Run(in)
	found := false
	for _, r := range result.Recommendations {
		if r.Component == "cpu" && r.Priority == "critical" {
			found = true
		}
	}
	require.True(t, found)
}
