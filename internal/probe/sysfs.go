package probe

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// CPUFreq is the scaling driver state for one logical CPU.
type CPUFreq struct {
	CurrentKHz  uint64
	MinKHz      uint64
	MaxKHz      uint64
	Governor    string
	Governors   []string
}

// ReadCPUFreq reads cpufreq files for cpuN under sysRoot. A missing
// scaling_cur_freq means the cpufreq subsystem (or this CPU) has no
// frequency scaling and is reported as FileMissing, not zero.
func ReadCPUFreq(src Source, cpuNum int) (CPUFreq, error) {
	base := filepath.Join(src.SysRoot, "devices/system/cpu", "cpu"+strconv.Itoa(cpuNum), "cpufreq")

	cur, err := readRequired(src, filepath.Join(base, "scaling_cur_freq"))
	if err != nil {
		return CPUFreq{}, err
	}
	f := CPUFreq{}
	f.CurrentKHz, _ = strconv.ParseUint(strings.TrimSpace(cur), 10, 64)

	if min, ok := src.Sys.ReadFile(filepath.Join(base, "scaling_min_freq")); ok {
		f.MinKHz, _ = strconv.ParseUint(strings.TrimSpace(min), 10, 64)
	}
	if max, ok := src.Sys.ReadFile(filepath.Join(base, "scaling_max_freq")); ok {
		f.MaxKHz, _ = strconv.ParseUint(strings.TrimSpace(max), 10, 64)
	}
	if gov, ok := src.Sys.ReadFile(filepath.Join(base, "scaling_governor")); ok {
		f.Governor = strings.TrimSpace(gov)
	}
	if govs, ok := src.Sys.ReadFile(filepath.Join(base, "scaling_available_governors")); ok {
		f.Governors = strings.Fields(govs)
	}
	return f, nil
}

// Topology describes how many physical packages and cores cpu0 sees,
// derived by walking physical_package_id/core_id across every present
// cpuN directory (mirrors the original analyzer's cpu-number probe
// loop rather than relying on lscpu for this).
type Topology struct {
	LogicalCPUs    int
	PhysicalCPUs   int
	CoresPerSocket int
}

// ReadTopology walks /sys/devices/system/cpu/cpuN/topology until a
// cpu number is missing, counting distinct package and core IDs.
func ReadTopology(src Source) Topology {
	packages := map[string]struct{}{}
	cores := map[string]struct{}{}
	n := 0
	for {
		base := filepath.Join(src.SysRoot, "devices/system/cpu", "cpu"+strconv.Itoa(n), "topology")
		pkg, ok := src.Sys.ReadFile(filepath.Join(base, "physical_package_id"))
		if !ok {
			break
		}
		packages[strings.TrimSpace(pkg)] = struct{}{}
		if core, ok := src.Sys.ReadFile(filepath.Join(base, "core_id")); ok {
			cores[strings.TrimSpace(core)] = struct{}{}
		}
		n++
	}
	return Topology{LogicalCPUs: n, PhysicalCPUs: len(packages), CoresPerSocket: len(cores)}
}

// CacheLevel is one entry of /sys/devices/system/cpu/cpu0/cache/indexN.
type CacheLevel struct {
	Level string
	Type  string
	Size  string
}

// ReadCacheLevels reads indices 0-3 of cpu0's cache directory, skipping
// any index whose size/type/level files are incomplete.
func ReadCacheLevels(src Source) []CacheLevel {
	var levels []CacheLevel
	base := filepath.Join(src.SysRoot, "devices/system/cpu/cpu0/cache")
	for i := 0; i < 4; i++ {
		idx := filepath.Join(base, "index"+strconv.Itoa(i))
		if !src.Sys.FileExists(filepath.Join(idx, "size")) {
			continue
		}
		size, ok1 := src.Sys.ReadFile(filepath.Join(idx, "size"))
		typ, ok2 := src.Sys.ReadFile(filepath.Join(idx, "type"))
		level, ok3 := src.Sys.ReadFile(filepath.Join(idx, "level"))
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		levels = append(levels, CacheLevel{Level: strings.TrimSpace(level), Type: strings.TrimSpace(typ), Size: strings.TrimSpace(size)})
	}
	return levels
}

// cpuVulnerabilities lists the mitigation files the analyzer checks
// under /sys/devices/system/cpu/vulnerabilities/.
var cpuVulnerabilities = []string{
	"spectre_v1", "spectre_v2", "meltdown", "spec_store_bypass",
	"l1tf", "mds", "tsx_async_abort", "itlb_multihit", "srbds",
}

// ReadVulnerabilities returns the raw mitigation-status string for
// every vulnerability file present; absent files are simply omitted.
func ReadVulnerabilities(src Source) map[string]string {
	out := map[string]string{}
	base := filepath.Join(src.SysRoot, "devices/system/cpu/vulnerabilities")
	for _, v := range cpuVulnerabilities {
		if status, ok := src.Sys.ReadFile(filepath.Join(base, v)); ok {
			out[v] = strings.TrimSpace(status)
		}
	}
	return out
}

// NetDevSysfs is the per-interface sysfs state used to classify a NIC
// as wired/wireless and read its link speed.
type NetDevSysfs struct {
	Name       string
	SpeedMbps  int64
	Duplex     string
	OperState  string
	IsWireless bool
}

// ReadNetDevSysfs reads /sys/class/net/<name>/{speed,duplex,operstate}
// and detects wireless via the presence of a wireless/ subdirectory.
// speed is unreadable (returns -1) whenever the link is down, which is
// not a probe failure.
func ReadNetDevSysfs(src Source, name string) NetDevSysfs {
	base := filepath.Join(src.SysRoot, "class/net", name)
	n := NetDevSysfs{Name: name, SpeedMbps: -1}
	if speed, ok := src.Sys.ReadFile(filepath.Join(base, "speed")); ok {
		if v, err := strconv.ParseInt(strings.TrimSpace(speed), 10, 64); err == nil {
			n.SpeedMbps = v
		}
	}
	if duplex, ok := src.Sys.ReadFile(filepath.Join(base, "duplex")); ok {
		n.Duplex = strings.TrimSpace(duplex)
	}
	if state, ok := src.Sys.ReadFile(filepath.Join(base, "operstate")); ok {
		n.OperState = strings.TrimSpace(state)
	}
	n.IsWireless = src.Sys.FileExists(filepath.Join(base, "wireless"))
	return n
}

func init() {
	register(&Spec{
		Name:     "cpu0_freq",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			f, err := ReadCPUFreq(src, 0)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: f}
		},
	})

	register(&Spec{
		Name:     "cpu_topology",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			return Result{Value: ReadTopology(src)}
		},
	})

	register(&Spec{
		Name:     "cpu_cache",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			return Result{Value: ReadCacheLevels(src)}
		},
	})

	register(&Spec{
		Name:     "cpu_vulnerabilities",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			return Result{Value: ReadVulnerabilities(src)}
		},
	})
}
