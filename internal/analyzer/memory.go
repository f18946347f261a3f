package analyzer

import (
	"context"

	"github.com/infenix/sysdiag/internal/probe"
)

// MemoryAnalyzer composes meminfo/vmstat/PSI/EDAC/NUMA/dmidecode
// probes, grounded on memory_analyzer.py's section layout.
type MemoryAnalyzer struct{}

func (MemoryAnalyzer) Name() string { return "memory" }

func (MemoryAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/meminfo"); !ok {
		out[errKey("meminfo")] = "failed to read /proc/meminfo"
	} else if info, err := probe.ParseMemInfo(raw); err != nil {
		out[errKey("meminfo")] = err.Error()
	} else {
		out["mem_total_kb"] = info.MemTotalKB
		out["mem_free_kb"] = info.MemFreeKB
		out["mem_available_kb"] = info.MemAvailableKB
		out["buffers_kb"] = info.BuffersKB
		out["cached_kb"] = info.CachedKB
		out["swap_total_kb"] = info.SwapTotalKB
		out["swap_free_kb"] = info.SwapFreeKB
		out["dirty_kb"] = info.DirtyKB
		out["writeback_kb"] = info.WritebackKB
		if info.MemTotalKB > 0 {
			used := info.MemTotalKB - info.MemAvailableKB
			out["mem_used_percent"] = float64(used) / float64(info.MemTotalKB) * 100
		}
		if info.SwapTotalKB > 0 {
			swapUsed := info.SwapTotalKB - info.SwapFreeKB
			out["swap_used_percent"] = float64(swapUsed) / float64(info.SwapTotalKB) * 100
		}
	}

	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/vmstat"); ok {
		v := probe.ParseVMStat(raw)
		out["pgfault"] = v.PgFault
		out["pgmajfault"] = v.PgMajFault
		out["pgscan_kswapd"] = v.PgScanKSwap
		out["pgscan_direct"] = v.PgScanDirec
		out["oom_kill"] = v.OOMKill
	} else {
		out[errKey("vmstat")] = "failed to read /proc/vmstat"
	}

	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/pressure/memory"); ok {
		if some, full, err := probe.ParsePressure(raw); err == nil {
			out["memory_pressure_avg10"] = some.Avg10
			out["memory_pressure_avg60"] = some.Avg60
			out["memory_pressure_avg300"] = some.Avg300
			out["memory_pressure_full_avg10"] = full.Avg10
		}
	}

	mods, err := readDmidecodeMemory(ctx, src)
	if err != nil {
		out[errKey("dmidecode_memory")] = err.Error()
	} else {
		out["memory_modules"] = mods
		populated := 0
		for _, m := range mods {
			if m.Populated {
				populated++
			}
		}
		out["populated_dimm_slots"] = populated
		out["total_dimm_slots"] = len(mods)
	}

	if cap, err := readDmidecodeChassis(ctx, src); err == nil {
		out["max_capacity_kb"] = cap.MaxCapacityKB
	}

	if edac := probe.ReadEDAC(src); edac != nil {
		out["edac_memory_controllers"] = edac
	}

	if probe.HasNUMA(src) {
		res := src.Sys.RunCommand(ctx, []string{"numactl", "--hardware"})
		if res.Success {
			numa := probe.ParseNumactlHardware(res.Stdout)
			out["numa_nodes"] = numa.Nodes
			out["numa_node_distances"] = numa.NodeDistances
		}
	}

	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/buddyinfo"); ok {
		report := probe.ParseBuddyInfo(raw)
		out["memory_fragmented"] = report.Fragmented
		if report.Fragmented {
			out["fragmented_zones"] = report.Nodes
		}
	}

	return out
}

func readDmidecodeMemory(ctx context.Context, src probe.Source) ([]probe.MemoryModule, error) {
	res := src.Sys.RunCommand(ctx, []string{"dmidecode", "-t", "17"})
	if !res.Success {
		return nil, &cmdErr{"dmidecode -t 17", res.Error}
	}
	return probe.ParseDmidecodeType17(res.Stdout)
}

func readDmidecodeChassis(ctx context.Context, src probe.Source) (probe.ChassisMaxCapacity, error) {
	res := src.Sys.RunCommand(ctx, []string{"dmidecode", "-t", "16"})
	if !res.Success {
		return probe.ChassisMaxCapacity{}, &cmdErr{"dmidecode -t 16", res.Error}
	}
	return probe.ParseDmidecodeType16(res.Stdout)
}

type cmdErr struct {
	cmd    string
	reason string
}

func (e *cmdErr) Error() string { return e.cmd + ": " + e.reason }
