package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestCPUAnalyzer_Analyze(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedFile("/proc/cpuinfo", "model name\t: Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz\nvendor_id\t: GenuineIntel\nflags\t\t: fpu avx2 rdrand vmx nx smep\n")
	sys.SeedCommand([]string{"lscpu"}, sysaccess.CommandResult{Success: true, Stdout: "Architecture:        x86_64\nCPU op-mode(s):      32-bit, 64-bit\n"})
	sys.SeedFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq", "3600000")
	sys.SeedFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor", "performance")
	sys.SeedFile("/sys/devices/system/cpu/cpu0/topology/physical_package_id", "0")
	sys.SeedFile("/sys/devices/system/cpu/cpu0/topology/core_id", "0")
	sys.SeedFile("/sys/devices/system/cpu/vulnerabilities/spectre_v2", "Mitigation: Retpolines")
	sys.SeedFile("/proc/loadavg", "0.52 0.58 0.59 2/891 12345\n")

	src := probe.DefaultSource(sys)
	out := CPUAnalyzer{}.Analyze(context.Background(), src)

	require.Equal(t, "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz", out["model_name"])
	require.Equal(t, "GenuineIntel", out["vendor_id"])
	sec, ok := out["security_features"].(map[string]bool)
	require.True(t, ok)
	require.True(t, sec["nx_bit"])
	require.True(t, sec["smep"])
	virt, ok := out["virtualization_features"].(map[string]bool)
	require.True(t, ok)
	require.True(t, virt["vmx"])
	require.Equal(t, "x86_64", out["architecture"])
	require.Equal(t, uint64(3600000), out["current_frequency_khz"])
	require.Equal(t, 3600.0, out["current_frequency_mhz"])
	require.Equal(t, "performance", out["current_governor"])
	require.Equal(t, 1, out["physical_cpus"])
	require.Equal(t, 0.52, out["load1"])
	require.NotContains(t, out, "cpuinfo_error")
}

func TestCPUAnalyzer_MissingCPUInfo(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"lscpu"}, sysaccess.CommandResult{Success: false, Error: "not found"})
	src := probe.DefaultSource(sys)
	out := CPUAnalyzer{}.Analyze(context.Background(), src)
	require.Contains(t, out, "cpuinfo_error")
	require.Contains(t, out, "lscpu_error")
}
