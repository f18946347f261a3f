package analyzer

import (
	"context"
	"math"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
	"github.com/infenix/sysdiag/internal/probe"
)

// securityFlags, performanceFlags and virtFlags mirror the Python
// original's three flag-classification tables exactly, keyed by the
// exported attribute name the recommendation engine looks for.
var (
	securityFlags = map[string]string{
		"nx_bit":   "nx",
		"smep":     "smep",
		"smap":     "smap",
		"intel_pt": "intel_pt",
		"cet_ss":   "cet_ss",
		"cet_ibt":  "cet_ibt",
	}
	performanceFlags = map[string]string{
		"sse":     "sse",
		"sse2":    "sse2",
		"sse3":    "pni", // pni = Prescott New Instructions (SSE3)
		"ssse3":   "ssse3",
		"sse4_1":  "sse4_1",
		"sse4_2":  "sse4_2",
		"avx":     "avx",
		"avx2":    "avx2",
		"avx512f": "avx512f",
		"aes":     "aes",
		"rdrand":  "rdrand",
		"rdseed":  "rdseed",
	}
	virtFlags = map[string]string{
		"vmx":  "vmx",
		"svm":  "svm",
		"ept":  "ept",
		"vpid": "vpid",
	}
)

func classifyFlags(flags []string, table map[string]string) map[string]bool {
	present := make(map[string]bool, len(flags))
	for _, f := range flags {
		present[f] = true
	}
	out := make(map[string]bool, len(table))
	for name, flag := range table {
		out[name] = present[flag]
	}
	return out
}

// CPUAnalyzer composes the procfs/sysfs/lscpu probes into the
// normalized CPU attribute set the recommendation engine's kconfig and
// profile rules read. It reads every value once — these are
// structural facts, not rate counters, so no two-point sampling is
// needed here.
type CPUAnalyzer struct{}

func (CPUAnalyzer) Name() string { return "cpu" }

func (CPUAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	cpuinfoRaw, ok := src.Sys.ReadFile(src.ProcRoot + "/cpuinfo")
	if !ok {
		out[errKey("cpuinfo")] = "failed to read /proc/cpuinfo"
	} else if info, perr := probe.ParseCPUInfo(cpuinfoRaw); perr != nil {
		out[errKey("cpuinfo")] = perr.Error()
	} else {
		out["model_name"] = info.ModelName
		out["vendor_id"] = info.VendorID
		out["cpu_family"] = info.CPUFamily
		out["model"] = info.Model
		out["stepping"] = info.Stepping
		out["cpu_flags"] = info.Flags
		out["security_features"] = classifyFlags(info.Flags, securityFlags)
		out["performance_features"] = classifyFlags(info.Flags, performanceFlags)
		out["virtualization_features"] = classifyFlags(info.Flags, virtFlags)
	}

	lsRes := src.Sys.RunCommand(ctx, []string{"lscpu"})
	if !lsRes.Success {
		out[errKey("lscpu")] = lsRes.Error
	} else if ls, perr := probe.ParseLscpu(lsRes.Stdout); perr != nil {
		out[errKey("lscpu")] = perr.Error()
	} else {
		out["architecture"] = ls.Architecture
		out["cpu_op_modes"] = ls.CPUOpModes
		out["byte_order"] = ls.ByteOrder
		out["numa_nodes"] = ls.NUMANodes
	}

	out["vulnerabilities"] = probe.ReadVulnerabilities(src)
	vulnerableCount := 0
	for _, status := range out["vulnerabilities"].(map[string]string) {
		if containsVulnerable(status) {
			vulnerableCount++
		}
	}
	out["vulnerable_count"] = vulnerableCount

	if freq, ferr := probe.ReadCPUFreq(src, 0); ferr != nil {
		out[errKey("cpufreq")] = ferr.Error()
	} else {
		out["current_frequency_khz"] = freq.CurrentKHz
		out["current_frequency_mhz"] = khzToMHz(freq.CurrentKHz)
		out["min_frequency_khz"] = freq.MinKHz
		out["min_frequency_mhz"] = khzToMHz(freq.MinKHz)
		out["max_frequency_khz"] = freq.MaxKHz
		out["max_frequency_mhz"] = khzToMHz(freq.MaxKHz)
		out["current_governor"] = freq.Governor
		out["available_governors"] = freq.Governors
	}

	topo := probe.ReadTopology(src)
	out["logical_cpus"] = topo.LogicalCPUs
	out["physical_cpus"] = topo.PhysicalCPUs
	out["cores_per_socket"] = topo.CoresPerSocket

	if levels := probe.ReadCacheLevels(src); len(levels) > 0 {
		cache := make(map[string]map[string]string, len(levels))
		for _, l := range levels {
			cache["L"+l.Level] = map[string]string{"size": l.Size, "type": l.Type}
		}
		out["cache"] = cache
	}

	if load, lerr := readLoadAvg(src); lerr == nil {
		out["load1"] = load.Load1
		out["load5"] = load.Load5
		out["load15"] = load.Load15
		out["runnable_procs"] = load.RunnableProcs
		out["total_procs"] = load.TotalProcs
	} else {
		out[errKey("loadavg")] = lerr.Error()
	}

	return out
}

func readLoadAvg(src probe.Source) (probe.LoadAvg, error) {
	raw, ok := src.Sys.ReadFile(src.ProcRoot + "/loadavg")
	if !ok {
		return probe.LoadAvg{}, &errs.FileMissing{Path: src.ProcRoot + "/loadavg", Reason: "unreadable"}
	}
	return probe.ParseLoadAvg(raw)
}

func khzToMHz(khz uint64) float64 {
	return math.Round(float64(khz)/1000.0*100) / 100
}

func containsVulnerable(status string) bool {
	return strings.Contains(status, "Vulnerable")
}
