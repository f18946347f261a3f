package logpipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mkFinding(typ string, ts time.Time, msg string) Finding {
	return Finding{
		Type:     typ,
		Priority: PriorityHigh,
		Entry:    ClassifiedEntry{LogEntry: LogEntry{Timestamp: ts, Message: msg}},
	}
}

func TestCorrelate_OOMStorm(t *testing.T) {
	base := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	p := Patterns{}
	p.Hardware.MemoryIssues = []Finding{
		mkFinding("oom_killer", base, "Out of memory: Kill process 1"),
		mkFinding("oom_killer", base.Add(10*time.Second), "Out of memory: Kill process 2"),
		mkFinding("oom_killer", base.Add(20*time.Second), "Out of memory: Kill process 3"),
	}

	cf := Correlate(p)
	require.Len(t, cf, 1)
	require.Equal(t, "oom_storm", cf[0].Type)
	require.Equal(t, PriorityCritical, cf[0].Priority)
	require.Len(t, cf[0].Evidence, 3)
}

func TestCorrelate_ThermalPanic(t *testing.T) {
	base := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	p := Patterns{}
	p.Hardware.TemperatureIssues = []Finding{mkFinding("thermal_throttling", base, "thermal throttling active")}
	p.Kernel.KernelPanics = []Finding{mkFinding("kernel_panic", base.Add(2*time.Minute), "Kernel panic - not syncing")}

	cf := Correlate(p)
	require.Len(t, cf, 1)
	require.Equal(t, "thermal_throttle_panic", cf[0].Type)
}

func TestCorrelate_DiskFailing(t *testing.T) {
	base := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	p := Patterns{}
	p.Hardware.StorageIssues = []Finding{
		mkFinding("io_error", base, "blk_update_request: I/O error"),
		mkFinding("smart_warning", base.Add(time.Hour), "smartd: SMART warning sda"),
	}
	cf := Correlate(p)
	require.Len(t, cf, 1)
	require.Equal(t, "disk_failing", cf[0].Type)
}
