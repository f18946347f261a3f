package analyzer

import (
	"context"
	"strings"

	"github.com/infenix/sysdiag/internal/probe"
)

// NetworkAnalyzer composes `ip -s addr`, `iwconfig` and per-interface
// sysfs reads, grounded on network_analyzer.py's basic/wireless/driver
// sections.
type NetworkAnalyzer struct{}

func (NetworkAnalyzer) Name() string { return "network" }

func (NetworkAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	ipRes := src.Sys.RunCommand(ctx, []string{"ip", "-s", "addr"})
	if !ipRes.Success {
		out[errKey("ip_addr")] = ipRes.Error
	} else if ifaces, err := probe.ParseIPAddr(ipRes.Stdout); err != nil {
		out[errKey("ip_addr")] = err.Error()
	} else {
		out["interfaces"] = ifaces
	}

	iwRes := src.Sys.RunCommand(ctx, []string{"iwconfig"})
	if iwRes.Success && strings.TrimSpace(iwRes.Stdout) != "" {
		if wireless := probe.ParseIwconfig(iwRes.Stdout); len(wireless) > 0 {
			out["wireless_interfaces"] = wireless
		}
	}

	lsRes := src.Sys.RunCommand(ctx, []string{"ls", "/sys/class/net/"})
	if !lsRes.Success {
		out[errKey("interface_list")] = lsRes.Error
		return out
	}
	names := strings.Fields(lsRes.Stdout)
	sysfsInfo := map[string]probe.NetDevSysfs{}
	for _, name := range names {
		if name == "lo" {
			continue
		}
		sysfsInfo[name] = probe.ReadNetDevSysfs(src, name)
	}
	if len(sysfsInfo) > 0 {
		out["interface_sysfs"] = sysfsInfo
	}

	return out
}
