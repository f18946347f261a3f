package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateHardware_Thresholds(t *testing.T) {
	thr := DefaultThresholds

	recs := generateHardware(Metrics{CPULoadPerCore: 2.5}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "critical", recs[0].Priority)
	require.Equal(t, "stability", recs[0].Category)

	recs = generateHardware(Metrics{CPULoadPerCore: 1.6}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "medium", recs[0].Priority)
	require.Equal(t, "performance", recs[0].Category)

	recs = generateHardware(Metrics{CPULoadPerCore: 0.5}, thr)
	require.Empty(t, recs)

	recs = generateHardware(Metrics{HasCPUTemp: true, CPUTempC: 90}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "cpu", recs[0].Component)
	require.Equal(t, "critical", recs[0].Priority)
	require.Equal(t, "Immediate CPU cooling required", recs[0].Action)

	recs = generateHardware(Metrics{MemoryUsedPercent: 96}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "critical", recs[0].Priority)

	recs = generateHardware(Metrics{SwapUsedPercent: 60}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "memory", recs[0].Component)

	recs = generateHardware(Metrics{DiskUsagePercent: map[string]float64{"/": 96}}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "critical", recs[0].Priority)
	require.Contains(t, recs[0].Action, "/")
}

// TestGenerateHardware_S1CriticalCPUTemp is spec.md §8 scenario S1:
// a CPU temperature of 86.0 (>= the 85 critical threshold) must
// produce an action beginning "Immediate CPU cooling required".
func TestGenerateHardware_S1CriticalCPUTemp(t *testing.T) {
	recs := generateHardware(Metrics{HasCPUTemp: true, CPUTempC: 86.0}, DefaultThresholds)
	require.Len(t, recs, 1)
	require.Equal(t, "Immediate CPU cooling required", recs[0].Action)
	require.Equal(t, "critical", recs[0].Priority)
}

// TestGenerateHardware_S5WarningCPUTemp is spec.md §8 scenario S5: the
// warning-level CPU temperature recommendation ("Improve CPU cooling")
// is category=performance, priority=high.
func TestGenerateHardware_S5WarningCPUTemp(t *testing.T) {
	recs := generateHardware(Metrics{HasCPUTemp: true, CPUTempC: 76.0}, DefaultThresholds)
	require.Len(t, recs, 1)
	require.Equal(t, "Improve CPU cooling", recs[0].Action)
	require.Equal(t, "performance", recs[0].Category)
	require.Equal(t, "high", recs[0].Priority)
}

func TestGenerateLogs(t *testing.T) {
	thr := DefaultThresholds

	recs := generateLogs(LogSummary{CriticalCount: 2}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "critical", recs[0].Priority)

	recs = generateLogs(LogSummary{HighCount: 15}, thr)
	require.Len(t, recs, 1)
	require.Equal(t, "high", recs[0].Priority)

	recs = generateLogs(LogSummary{HighCount: 1}, thr)
	require.Empty(t, recs)
}

func TestGenerateKernel(t *testing.T) {
	findings := []KConfigFinding{
		{Option: "CONFIG_STRICT_KERNEL_RWX", Category: "security", Present: false, Compliant: false, Recommended: "y"},
		{Option: "CONFIG_HZ", Category: "performance", Present: true, Compliant: true, CurrentValue: "1000"},
		{Option: "CONFIG_PREEMPT", Category: "performance", Present: true, Compliant: false, CurrentValue: "none", Recommended: "voluntary"},
	}
	recs := generateKernel(findings)
	require.Len(t, recs, 2)
	require.Equal(t, "high", recs[0].Priority)
	require.Equal(t, "security", recs[0].Category)
	require.Equal(t, "medium", recs[1].Priority)
}

func TestGenerateProfileOverlays_LayerOrder(t *testing.T) {
	profile := HardwareProfile{
		SystemType:   "laptop",
		CPUCores:     "multi",
		MemorySize:   "large",
		StorageType:  "nvme",
		NetworkType:  "wireless",
		GraphicsType: "dedicated",
	}
	recs := generateProfileOverlays(profile)
	require.NotEmpty(t, recs)
	require.Equal(t, "system", recs[0].Component)
	require.Equal(t, "Keep the kernel and firmware up to date", recs[0].Action)

	var components []string
	for _, r := range recs {
		components = append(components, r.Component)
	}
	require.Contains(t, components, "cpu")
	require.Contains(t, components, "memory")
	require.Contains(t, components, "storage")
	require.Contains(t, components, "network")
	require.Contains(t, components, "graphics")
}

func TestGenerateProfileOverlays_ConditionGating(t *testing.T) {
	profile := HardwareProfile{
		SystemType:   "desktop",
		CPUCores:     "single",
		MemorySize:   "medium",
		StorageType:  "hdd",
		NetworkType:  "ethernet",
		GraphicsType: "integrated",
	}
	recs := generateProfileOverlays(profile)
	for _, r := range recs {
		require.NotEqual(t, "Enable CPU core-aware scheduling tuning", r.Action)
		require.NotEqual(t, "Enable periodic TRIM (fstrim.timer)", r.Action)
	}
	var actions []string
	for _, r := range recs {
		actions = append(actions, r.Action)
	}
	require.Contains(t, actions, "Schedule filesystem defragmentation")
}

func TestGenerateSysctl(t *testing.T) {
	recs := generateSysctl(HardwareProfile{StorageType: "ssd"}, HardwareInfo{MemoryKB: 2 * kbPerGiB})
	var actions []string
	for _, r := range recs {
		actions = append(actions, r.Action)
	}
	require.Contains(t, actions, "Set vm.swappiness=10")
	require.Contains(t, actions, "Set vm.vfs_cache_pressure=50")
	require.Contains(t, actions, "Increase net.core.rmem_max and net.core.wmem_max")

	recs = generateSysctl(HardwareProfile{StorageType: "hdd"}, HardwareInfo{MemoryKB: 8 * kbPerGiB})
	actions = nil
	for _, r := range recs {
		actions = append(actions, r.Action)
	}
	require.NotContains(t, actions, "Set vm.swappiness=10")
	require.NotContains(t, actions, "Set vm.vfs_cache_pressure=50")
}
