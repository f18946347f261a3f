package engine

import (
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/analyzer"
	"github.com/infenix/sysdiag/internal/logpipeline"
	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/recommend"
)

// buildHardwareInfo reads the subset of fields recommend.HardwareInfo
// needs out of the raw analyzer Result maps, tolerating any field's
// absence (a probe failure leaves the corresponding zero value, never
// a panic) exactly as the analyzer's own "<name>_error" sentinel
// convention expects callers to behave.
func buildHardwareInfo(hw map[string]analyzer.Result) recommend.HardwareInfo {
	var info recommend.HardwareInfo

	if cpu, ok := hw["cpu"]; ok {
		if name, ok := cpu["model_name"].(string); ok {
			info.CPUModelName = name
		}
		if n, ok := cpu["logical_cpus"].(int); ok {
			info.CPUCores = n
		}
	}

	if mem, ok := hw["memory"]; ok {
		if kb, ok := mem["mem_total_kb"].(uint64); ok {
			info.MemoryKB = kb
		}
	}

	if storage, ok := hw["storage"]; ok {
		if disks, ok := storage["disks"].([]analyzer.DiskDetail); ok {
			for _, d := range disks {
				info.Disks = append(info.Disks, recommend.DiskInfo{Name: d.Name, IsSSD: d.IsSSD})
			}
		}
	}

	if net, ok := hw["network"]; ok {
		if ifaces, ok := net["interfaces"].([]probe.NetInterface); ok {
			wireless := map[string]bool{}
			if wifis, ok := net["wireless_interfaces"].([]probe.WirelessInterface); ok {
				for _, w := range wifis {
					wireless[w.Name] = true
				}
			}
			for _, i := range ifaces {
				info.Interfaces = append(info.Interfaces, recommend.InterfaceInfo{Wireless: wireless[i.Name]})
			}
		}
	}

	if gfx, ok := hw["graphics"]; ok {
		if gpus, ok := gfx["gpus"].([]probe.GraphicsCard); ok {
			for _, g := range gpus {
				vendor := "unknown"
				switch {
				case g.IsNvidia:
					vendor = "NVIDIA"
				case g.IsAMD:
					vendor = "AMD"
				case g.IsIntel:
					vendor = "Intel"
				}
				info.GPUs = append(info.GPUs, recommend.GPUInfo{Vendor: vendor})
			}
		}
	}

	return info
}

// buildMetrics reads the live threshold-comparison values out of the
// cpu/memory/storage analyzer results.
func buildMetrics(hw map[string]analyzer.Result) recommend.Metrics {
	var m recommend.Metrics
	m.DiskUsagePercent = map[string]float64{}

	if cpu, ok := hw["cpu"]; ok {
		if load1, ok := cpu["load1"].(float64); ok {
			if n, ok := cpu["logical_cpus"].(int); ok && n > 0 {
				m.CPULoadPerCore = load1 / float64(n)
			} else {
				m.CPULoadPerCore = load1
			}
		}
	}

	if mem, ok := hw["memory"]; ok {
		if pct, ok := mem["mem_used_percent"].(float64); ok {
			m.MemoryUsedPercent = pct
		}
		if pct, ok := mem["swap_used_percent"].(float64); ok {
			m.SwapUsedPercent = pct
		}
	}

	if storage, ok := hw["storage"]; ok {
		if entries, ok := storage["filesystems"].([]probe.DFEntry); ok {
			for _, e := range entries {
				m.DiskUsagePercent[e.MountPoint] = float64(e.UsePercent)
			}
		}
	}

	return m
}

// buildKConfigFindings flattens the kernel_config analyzer's
// security_findings/performance_findings slices into the lightweight
// recommend.KConfigFinding this package's rule base reads.
func buildKConfigFindings(kernelConfig analyzer.Result) []recommend.KConfigFinding {
	var out []recommend.KConfigFinding
	for _, key := range []string{"security_findings", "performance_findings"} {
		findings, ok := kernelConfig[key].([]analyzer.ConfigFinding)
		if !ok {
			continue
		}
		for _, f := range findings {
			out = append(out, recommend.KConfigFinding{
				Option:       f.Option,
				Category:     f.Category,
				Present:      f.Present,
				Compliant:    f.Compliant,
				CurrentValue: f.CurrentValue,
				Recommended:  f.Recommended,
				Description:  f.Description,
			})
		}
	}
	return out
}

// buildLogSummary reduces a LogAnalysis down to the counts
// recommend.LogSummary needs.
func buildLogSummary(la *logpipeline.LogAnalysis) recommend.LogSummary {
	if la == nil {
		return recommend.LogSummary{}
	}
	return recommend.LogSummary{
		CriticalCount: la.Issues["critical"].Count,
		HighCount:     la.Issues["high"].Count,
	}
}

// explanation builds the one-paragraph natural-language summary
// Diagnostic.explanation carries, grounded on the original's
// human-readable report preamble.
func explanation(hw map[string]analyzer.Result, la *logpipeline.LogAnalysis, recs []recommend.Recommendation) string {
	var b strings.Builder
	b.WriteString("Diagnostic collected ")
	b.WriteString(strconv.Itoa(len(hw)))
	b.WriteString(" hardware subsystem(s)")
	if la != nil {
		b.WriteString(", analyzed ")
		b.WriteString(strconv.Itoa(len(la.Entries)))
		b.WriteString(" log entries (health score ")
		b.WriteString(strconv.Itoa(la.HealthScore))
		b.WriteString("/100)")
	}
	b.WriteString(", and produced ")
	b.WriteString(strconv.Itoa(len(recs)))
	b.WriteString(" recommendation(s).")
	return b.String()
}
