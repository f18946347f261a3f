package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// EDACMemoryController is one /sys/devices/system/edac/mc/mcN handle.
type EDACMemoryController struct {
	Name  string
	SizeMB uint64
}

// ReadEDAC reads up to 10 EDAC memory-controller handles. Absence of
// /sys/devices/system/edac means the platform has no EDAC driver
// loaded at all, which is a normal (non-error) shape on most desktops.
func ReadEDAC(src Source) []EDACMemoryController {
	if !src.Sys.FileExists(src.SysRoot + "/devices/system/edac") {
		return nil
	}
	var out []EDACMemoryController
	for i := 0; i < 10; i++ {
		base := src.SysRoot + "/devices/system/edac/mc/mc" + strconv.Itoa(i)
		if !src.Sys.FileExists(base) {
			continue
		}
		mc := EDACMemoryController{}
		if name, ok := src.Sys.ReadFile(base + "/mc_name"); ok {
			mc.Name = strings.TrimSpace(name)
		}
		if size, ok := src.Sys.ReadFile(base + "/size_mb"); ok {
			mc.SizeMB, _ = strconv.ParseUint(strings.TrimSpace(size), 10, 64)
		}
		out = append(out, mc)
	}
	return out
}

var (
	numaNodesCountRE = regexp.MustCompile(`available: (\d+) nodes`)
	numaDistancesRE  = regexp.MustCompile(`(?s)node distances:(.*?)(?:\n\S|\z)`)
)

// NUMAInfo is the parsed form of `numactl --hardware`.
type NUMAInfo struct {
	Nodes         int
	NodeDistances string
}

// ParseNumactlHardware parses `numactl --hardware` output.
func ParseNumactlHardware(raw string) NUMAInfo {
	var n NUMAInfo
	if m := numaNodesCountRE.FindStringSubmatch(raw); m != nil {
		n.Nodes, _ = strconv.Atoi(m[1])
	}
	if m := numaDistancesRE.FindStringSubmatch(raw); m != nil {
		n.NodeDistances = strings.TrimSpace(m[1])
	}
	return n
}

// HasNUMA reports whether the kernel exposes NUMA topology at all
// (/sys/devices/system/node exists), gating whether it's worth invoking
// numactl. A single-node system also passes.
func HasNUMA(src Source) bool {
	return src.Sys.FileExists(src.SysRoot + "/devices/system/node")
}

// FragmentationReport is the outcome of scanning /proc/buddyinfo for
// nodes/zones with too few higher-order (non-trivially-contiguous)
// free pages.
type FragmentationReport struct {
	Fragmented bool
	Nodes      []FragmentedZone
}

// FragmentedZone names one node/zone found short on higher-order
// pages by ParseBuddyInfo.
type FragmentedZone struct {
	Node              string
	Zone              string
	HigherOrderPages  int
}

// ParseBuddyInfo parses /proc/buddyinfo, flagging any node/zone whose
// sum of order-4-and-above free page counts falls below an arbitrary
// low-water mark, the same threshold the original analyzer uses.
func ParseBuddyInfo(raw string) FragmentationReport {
	report := FragmentationReport{}
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "Node") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}
		total := 0
		// fields[4] is the order-0 count, so order 4 starts at fields[8].
		for _, f := range fields[8:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				continue
			}
			total += n
		}
		if total < 100 {
			report.Fragmented = true
			report.Nodes = append(report.Nodes, FragmentedZone{
				Node:             strings.TrimSuffix(fields[1], ","),
				Zone:             fields[3],
				HigherOrderPages: total,
			})
		}
	}
	return report
}

func init() {
	register(&Spec{
		Name:     "buddyinfo",
		Category: "memory",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "buddyinfo"))
			if err != nil {
				return errResult(err)
			}
			return Result{Value: ParseBuddyInfo(raw)}
		},
	})

	register(&Spec{
		Name:     "numa",
		Category: "memory",
		Collect: func(ctx context.Context, src Source) Result {
			if !HasNUMA(src) {
				return Result{Value: NUMAInfo{}}
			}
			res := src.Sys.RunCommand(ctx, []string{"numactl", "--hardware"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"numactl", "--hardware"}, Reason: res.Error})
			}
			return Result{Value: ParseNumactlHardware(res.Stdout)}
		},
	})

	register(&Spec{
		Name:     "edac",
		Category: "memory",
		Collect: func(_ context.Context, src Source) Result {
			return Result{Value: ReadEDAC(src)}
		},
	})
}
