package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// NetInterface is one interface block from `ip -s addr`.
type NetInterface struct {
	Name      string
	State     string
	MAC       string
	Addresses []string
	RxBytes   uint64
	TxBytes   uint64
	RxPackets uint64
	TxPackets uint64
	RxErrors  uint64
	TxErrors  uint64
}

var (
	ifaceHeaderRE = regexp.MustCompile(`^\d+:\s+([\w.@-]+):.*state (\S+)`)
	macRE         = regexp.MustCompile(`link/\S+\s+([0-9a-f:]{17})`)
	inetRE        = regexp.MustCompile(`^\s*inet6?\s+(\S+)`)
)

// ParseIPAddr parses `ip -s addr` output into one NetInterface per
// numbered block. An empty document (no "N: name:" header at all) is
// a ParseError — a live system always has at least loopback.
func ParseIPAddr(raw string) ([]NetInterface, error) {
	var ifaces []NetInterface
	var cur *NetInterface
	lines := strings.Split(raw, "\n")
	statSection := 0 // 0=none, 1=expect RX header, 2=expect RX values, 3=expect TX header, 4=expect TX values

	for _, line := range lines {
		if m := ifaceHeaderRE.FindStringSubmatch(line); m != nil {
			if cur != nil {
				ifaces = append(ifaces, *cur)
			}
			cur = &NetInterface{Name: m[1], State: m[2]}
			statSection = 0
			continue
		}
		if cur == nil {
			continue
		}
		if m := macRE.FindStringSubmatch(line); m != nil {
			cur.MAC = m[1]
			continue
		}
		if m := inetRE.FindStringSubmatch(line); m != nil {
			cur.Addresses = append(cur.Addresses, m[1])
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "RX:") {
			statSection = 2
			continue
		}
		if strings.HasPrefix(trimmed, "TX:") {
			statSection = 4
			continue
		}
		fields := strings.Fields(trimmed)
		if statSection == 2 && len(fields) >= 3 {
			cur.RxBytes, _ = strconv.ParseUint(fields[0], 10, 64)
			cur.RxPackets, _ = strconv.ParseUint(fields[1], 10, 64)
			cur.RxErrors, _ = strconv.ParseUint(fields[2], 10, 64)
			statSection = 0
		} else if statSection == 4 && len(fields) >= 3 {
			cur.TxBytes, _ = strconv.ParseUint(fields[0], 10, 64)
			cur.TxPackets, _ = strconv.ParseUint(fields[1], 10, 64)
			cur.TxErrors, _ = strconv.ParseUint(fields[2], 10, 64)
			statSection = 0
		}
	}
	if cur != nil {
		ifaces = append(ifaces, *cur)
	}
	if ifaces == nil {
		return nil, &errs.ParseError{Field: "interface", Raw: raw}
	}
	return ifaces, nil
}

// WirelessInterface is one block of `iwconfig` output for an
// interface that has wireless extensions.
type WirelessInterface struct {
	Name        string
	ESSID       string
	Frequency   string
	AccessPoint string
	BitRateMbps string
	LinkQuality string
	SignalLevel string
}

var (
	iwconfigHeaderRE = regexp.MustCompile(`^(\S+)\s+\S`)
	essidRE          = regexp.MustCompile(`ESSID:"([^"]*)"`)
	freqRE           = regexp.MustCompile(`Frequency:(\S+)`)
	apRE             = regexp.MustCompile(`Access Point:\s*(\S+)`)
	bitRateRE        = regexp.MustCompile(`Bit Rate=(\S+\s*\S*)`)
	qualityRE        = regexp.MustCompile(`Link Quality=(\S+)`)
	signalRE         = regexp.MustCompile(`Signal level=(\S+)`)
)

// ParseIwconfig parses `iwconfig` output, one block per interface.
// iwconfig always starts a new interface's block at column 0;
// continuation lines are indented. A block whose first line contains
// "no wireless extensions" is the expected shape for a wired NIC and
// is dropped rather than appearing as an empty WirelessInterface.
func ParseIwconfig(raw string) []WirelessInterface {
	var out []WirelessInterface
	var cur *WirelessInterface
	for _, line := range strings.Split(raw, "\n") {
		if m := iwconfigHeaderRE.FindStringSubmatch(line); m != nil {
			if cur != nil {
				out = append(out, *cur)
			}
			if strings.Contains(line, "no wireless extensions") {
				cur = nil
			} else {
				cur = &WirelessInterface{Name: m[1]}
			}
		}
		if cur == nil {
			continue
		}
		if m := essidRE.FindStringSubmatch(line); m != nil {
			cur.ESSID = m[1]
		}
		if m := freqRE.FindStringSubmatch(line); m != nil {
			cur.Frequency = m[1]
		}
		if m := apRE.FindStringSubmatch(line); m != nil {
			cur.AccessPoint = m[1]
		}
		if m := bitRateRE.FindStringSubmatch(line); m != nil {
			cur.BitRateMbps = strings.TrimSpace(m[1])
		}
		if m := qualityRE.FindStringSubmatch(line); m != nil {
			cur.LinkQuality = m[1]
		}
		if m := signalRE.FindStringSubmatch(line); m != nil {
			cur.SignalLevel = m[1]
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func init() {
	register(&Spec{
		Name:     "ip_addr",
		Category: "network",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"ip", "-s", "addr"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"ip", "-s", "addr"}, Reason: res.Error})
			}
			ifaces, err := ParseIPAddr(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: ifaces}
		},
	})

	register(&Spec{
		Name:     "iwconfig",
		Category: "network",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"iwconfig"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"iwconfig"}, Reason: res.Error})
			}
			return Result{Value: ParseIwconfig(res.Stdout)}
		},
	})
}
