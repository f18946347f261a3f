package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestMemoryAnalyzer_Analyze(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedFile("/proc/meminfo", "MemTotal:       16384000 kB\nMemFree:         2048000 kB\nMemAvailable:    8192000 kB\nSwapTotal:       2097148 kB\nSwapFree:        2097148 kB\n")
	sys.SeedFile("/proc/vmstat", "pgfault 12345\noom_kill 0\n")
	sys.SeedCommand([]string{"dmidecode", "-t", "17"}, sysaccess.CommandResult{Success: true, Stdout: "Memory Device\n\tSize: 8192 MB\n\tLocator: DIMM_A1\n"})
	sys.SeedCommand([]string{"dmidecode", "-t", "16"}, sysaccess.CommandResult{Success: true, Stdout: "Maximum Capacity: 64 GB\n"})

	src := probe.DefaultSource(sys)
	out := MemoryAnalyzer{}.Analyze(context.Background(), src)

	require.Equal(t, uint64(16384000), out["mem_total_kb"])
	require.InDelta(t, 50.0, out["mem_used_percent"], 0.01)
	require.Equal(t, 0.0, out["swap_used_percent"])
	require.Equal(t, 1, out["populated_dimm_slots"])
	require.Equal(t, uint64(64*1024*1024), out["max_capacity_kb"])
	require.False(t, probe.HasNUMA(src))
}
