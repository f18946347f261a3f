// Generators implement the rule base's four layers (kconfig security,
// kconfig performance, profile-parametric overlays, sysctl) plus the
// hardware-threshold and log-derived generators the pipeline's
// generate step invokes, each in isolation per spec.md §4.5's
// failure-isolation rule.
package recommend

import (
	"fmt"

	"github.com/casbin/govaluate"
)

// generateHardware evaluates live metrics against the fixed
// Thresholds table, grounded on recommendation_generator.py's
// threshold-comparison generator.
func generateHardware(m Metrics, thr Thresholds) []Recommendation {
	var recs []Recommendation

	switch {
	case m.CPULoadPerCore >= thr.CPULoadPerCoreCritical:
		recs = append(recs, Recommendation{Component: "cpu", Category: "stability", Priority: "critical",
			Action: "Reduce CPU load", Details: "Load per core has exceeded the critical threshold.",
			Impact: "System responsiveness is degraded.", Urgency: "immediate"})
	case m.CPULoadPerCore >= thr.CPULoadPerCoreWarning:
		recs = append(recs, Recommendation{Component: "cpu", Category: "performance", Priority: "medium",
			Action: "Investigate elevated CPU load", Details: "Load per core is above the advisory threshold.",
			Impact: "Sustained high load can delay time-sensitive workloads.", Urgency: "soon"})
	}

	if m.HasCPUTemp {
		switch {
		case m.CPUTempC >= thr.CPUTempCritical:
			recs = append(recs, Recommendation{Component: "cpu", Category: "stability", Priority: "critical",
				Action: "Immediate CPU cooling required", Details: "CPU temperature is at or above the critical threshold.",
				Impact: "Risk of thermal throttling or shutdown.", Urgency: "immediate"})
		case m.CPUTempC >= thr.CPUTempWarning:
			recs = append(recs, Recommendation{Component: "cpu", Category: "performance", Priority: "high",
				Action: "Improve CPU cooling", Details: "CPU temperature is above the advisory threshold.",
				Impact: "Continued operation near this temperature risks throttling.", Urgency: "soon"})
		}
	}

	switch {
	case m.MemoryUsedPercent >= thr.MemoryUsageCritical:
		recs = append(recs, Recommendation{Component: "memory", Category: "stability", Priority: "critical",
			Action: "Free memory or add RAM", Details: "Memory usage is at or above the critical threshold.",
			Impact: "Risk of OOM kills.", Urgency: "immediate"})
	case m.MemoryUsedPercent >= thr.MemoryUsageWarning:
		recs = append(recs, Recommendation{Component: "memory", Category: "stability", Priority: "medium",
			Action: "Monitor memory usage", Details: "Memory usage is above the advisory threshold.",
			Impact: "Limited headroom for memory spikes.", Urgency: "soon"})
	}

	if m.SwapUsedPercent >= thr.SwapUsageWarning {
		recs = append(recs, Recommendation{Component: "memory", Category: "performance", Priority: "medium",
			Action: "Reduce swap usage", Details: "Swap usage is above the advisory threshold.",
			Impact: "Swapping degrades latency-sensitive workloads.", Urgency: "soon"})
	}

	for mount, pct := range m.DiskUsagePercent {
		switch {
		case pct >= thr.DiskUsageCritical:
			recs = append(recs, Recommendation{Component: "storage", Category: "stability", Priority: "critical",
				Action: fmt.Sprintf("Free disk space on %s", mount), Details: "Filesystem usage is at or above the critical threshold.",
				Impact: "Risk of write failures when the filesystem fills.", Urgency: "immediate"})
		case pct >= thr.DiskUsageWarning:
			recs = append(recs, Recommendation{Component: "storage", Category: "stability", Priority: "medium",
				Action: fmt.Sprintf("Plan disk cleanup on %s", mount), Details: "Filesystem usage is above the advisory threshold.",
				Impact: "Reduced headroom for logs and temporary files.", Urgency: "soon"})
		}
	}

	return recs
}

// generateLogs turns the log pipeline's severity counts into
// recommendations, grounded on recommendation_generator.py's
// log-derived generator.
func generateLogs(s LogSummary, thr Thresholds) []Recommendation {
	var recs []Recommendation
	switch {
	case s.CriticalCount > 0:
		recs = append(recs, Recommendation{Component: "logs", Category: "stability", Priority: "critical",
			Action: "Investigate critical log findings", Details: fmt.Sprintf("%d critical log issue(s) were detected.", s.CriticalCount),
			Impact: "Critical issues indicate active hardware or kernel faults.", Urgency: "immediate"})
	case s.HighCount >= thr.ErrorFrequencyWarning:
		recs = append(recs, Recommendation{Component: "logs", Category: "stability", Priority: "high",
			Action: "Review recurring high-severity log entries", Details: fmt.Sprintf("%d high-severity log issue(s) were detected.", s.HighCount),
			Impact: "Frequent errors often precede a harder failure.", Urgency: "soon"})
	}
	return recs
}

// generateKernel evaluates the kconfig security/performance findings
// (rule-base layers 1-2) into recommendations for every
// non-compliant or missing option, grounded on config_analyzer.py's
// good_practice/issue/recommendation emission.
func generateKernel(findings []KConfigFinding) []Recommendation {
	var recs []Recommendation
	for _, f := range findings {
		if f.Present && f.Compliant {
			continue
		}
		priority := "medium"
		category := "performance"
		urgency := "when_convenient"
		if f.Category == "security" {
			priority = "high"
			category = "security"
			urgency = "soon"
		}
		recs = append(recs, Recommendation{
			Component: "kernel",
			Category:  category,
			Priority:  priority,
			Action:    fmt.Sprintf("Set %s to %s", f.Option, f.Recommended),
			Details:   f.Description,
			Impact:    fmt.Sprintf("Current value: %q", f.CurrentValue),
			Urgency:   urgency,
		})
	}
	return recs
}

// overlayRule is one rule-base layer-3/4 entry: a profile-conditioned
// best practice or sysctl recommendation.
type overlayRule struct {
	Condition string // govaluate boolean expression over profile fields; "" means unconditional (the base layer)
	Component string
	Category  string
	Priority  string
	Urgency   string
	Action    string
	Details   string
	Impact    string
}

// overlayLayers are applied in the fixed order spec.md §4.5 names:
// base, cpu_*, memory_*, storage_*, network_*, graphics_*, system_*.
var overlayLayers = []struct {
	Name  string
	Rules []overlayRule
}{
	{"base", []overlayRule{
		{Component: "system", Category: "maintenance", Priority: "low", Urgency: "ongoing",
			Action: "Keep the kernel and firmware up to date",
			Details: "Regular updates include security and stability fixes.",
			Impact:  "Reduces exposure to known vulnerabilities and bugs."},
	}},
	{"cpu", []overlayRule{
		{Condition: `cpu_cores == "multi" || cpu_cores == "many"`, Component: "cpu", Category: "performance",
			Priority: "low", Urgency: "when_convenient", Action: "Enable CPU core-aware scheduling tuning",
			Details: "Multi-core systems benefit from NUMA-aware and IRQ-affinity tuning.",
			Impact:  "Better utilization across cores."},
	}},
	{"memory", []overlayRule{
		{Condition: `memory_size == "large" || memory_size == "very_large"`, Component: "memory", Category: "performance",
			Priority: "low", Urgency: "when_convenient", Action: "Enable transparent huge pages in madvise mode",
			Details: "Large-memory systems benefit from THP for memory-intensive workloads.",
			Impact:  "Reduced TLB pressure for large allocations."},
		{Condition: `memory_size == "small"`, Component: "memory", Category: "optimization",
			Priority: "medium", Urgency: "soon", Action: "Consider adding memory or a dedicated swap device",
			Details: "Small-memory systems are more exposed to memory pressure under load.",
			Impact:  "Fewer OOM events under load."},
	}},
	{"storage", []overlayRule{
		{Condition: `storage_type == "ssd" || storage_type == "nvme"`, Component: "storage", Category: "performance",
			Priority: "low", Urgency: "when_convenient", Action: "Enable periodic TRIM (fstrim.timer)",
			Details: "SSD/NVMe storage benefits from periodic discard to maintain write performance.",
			Impact:  "Sustains SSD write performance over time."},
		{Condition: `storage_type == "hdd"`, Component: "storage", Category: "performance",
			Priority: "low", Urgency: "when_convenient", Action: "Schedule filesystem defragmentation",
			Details: "Rotational storage benefits from periodic defragmentation under heavy churn.",
			Impact:  "Reduces seek overhead on fragmented filesystems."},
	}},
	{"network", []overlayRule{
		{Condition: `network_type == "wireless"`, Component: "network", Category: "optimization",
			Priority: "low", Urgency: "when_convenient", Action: "Review wireless power-management settings",
			Details: "Aggressive power-saving can cause latency spikes on wireless links.",
			Impact:  "More consistent wireless latency."},
	}},
	{"graphics", []overlayRule{
		{Condition: `graphics_type == "dedicated"`, Component: "graphics", Category: "optimization",
			Priority: "low", Urgency: "when_convenient", Action: "Install the vendor proprietary GPU driver",
			Details: "Dedicated GPUs generally perform better with the vendor driver than the open fallback.",
			Impact:  "Better graphics performance and power management."},
	}},
	{"system", []overlayRule{
		{Condition: `system_type == "laptop"`, Component: "system", Category: "optimization",
			Priority: "low", Urgency: "when_convenient", Action: "Enable a power-saving CPU governor on battery",
			Details: "Laptops benefit from a conservative/powersave governor when unplugged.",
			Impact:  "Improved battery life."},
		{Condition: `system_type == "server"`, Component: "system", Category: "performance",
			Priority: "medium", Urgency: "when_convenient", Action: "Use the performance CPU governor",
			Details: "Servers typically favor consistent throughput over power savings.",
			Impact:  "Lower and more consistent request latency."},
	}},
}

// generateProfileOverlays applies rule-base layer 3 in the fixed
// layer order, evaluating each rule's condition against the profile.
func generateProfileOverlays(profile HardwareProfile) []Recommendation {
	params := map[string]interface{}{
		"cpu_cores":     profile.CPUCores,
		"memory_size":   profile.MemorySize,
		"storage_type":  profile.StorageType,
		"network_type":  profile.NetworkType,
		"graphics_type": profile.GraphicsType,
		"system_type":   profile.SystemType,
	}

	var recs []Recommendation
	for _, layer := range overlayLayers {
		for _, rule := range layer.Rules {
			if rule.Condition != "" {
				matched, err := evalCondition(rule.Condition, params)
				if err != nil || !matched {
					continue
				}
			}
			recs = append(recs, Recommendation{
				Component: rule.Component,
				Category:  rule.Category,
				Priority:  rule.Priority,
				Action:    rule.Action,
				Details:   rule.Details,
				Impact:    rule.Impact,
				Urgency:   rule.Urgency,
			})
		}
	}
	return recs
}

func evalCondition(expr string, params map[string]interface{}) (bool, error) {
	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, err
	}
	result, err := parsed.Evaluate(params)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("overlay condition %q did not evaluate to a boolean", expr)
	}
	return b, nil
}

// generateSysctl implements rule-base layer 4, grounded on
// kernel/optimization.py's profile-driven sysctl suggestions.
func generateSysctl(profile HardwareProfile, hw HardwareInfo) []Recommendation {
	var recs []Recommendation

	gib := float64(hw.MemoryKB) / kbPerGiB
	if gib < 4 || gib > 16 {
		recs = append(recs, Recommendation{Component: "kernel", Category: "performance", Priority: "low",
			Urgency: "when_convenient", Action: "Set vm.swappiness=10",
			Details: "Memory capacity outside the 4-16 GiB comfort range benefits from reduced swap eagerness.",
			Impact:  "Keeps more working set resident in RAM."})
	}

	if profile.StorageType == "ssd" || profile.StorageType == "nvme" {
		recs = append(recs, Recommendation{Component: "kernel", Category: "performance", Priority: "low",
			Urgency: "when_convenient", Action: "Set vm.vfs_cache_pressure=50",
			Details: "SSD/NVMe-backed systems can retain dentry/inode caches more aggressively.",
			Impact:  "Fewer cache misses on repeated file access."})
	}

	recs = append(recs, Recommendation{Component: "kernel", Category: "performance", Priority: "low",
		Urgency: "when_convenient", Action: "Increase net.core.rmem_max and net.core.wmem_max",
		Details: "Larger socket buffer ceilings improve throughput on high-bandwidth-delay-product links.",
		Impact:  "Higher achievable network throughput."})

	return recs
}

// generateMaintenance emits the recurring, component-agnostic
// maintenance items every profile carries.
func generateMaintenance() []Recommendation {
	return []Recommendation{
		{Component: "system", Category: "maintenance", Priority: "low", Urgency: "ongoing",
			Action: "Review SMART health on all disks periodically",
			Details: "Predictive disk failure indicators surface well before total failure.",
			Impact:  "Earlier replacement before data loss."},
		{Component: "system", Category: "maintenance", Priority: "low", Urgency: "ongoing",
			Action: "Audit modprobe.d overrides after kernel upgrades",
			Details: "Module parameter overrides can silently stop applying across kernel upgrades.",
			Impact:  "Ensures intended module configuration stays in effect."},
	}
}
