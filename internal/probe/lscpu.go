package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// LscpuInfo is the subset of `lscpu` plain-text output the CPU
// analyzer cross-checks against /proc/cpuinfo.
type LscpuInfo struct {
	Architecture string
	CPUOpModes   string
	ByteOrder    string
	NUMANodes    string
}

var (
	archRE      = regexp.MustCompile(`(?m)^Architecture:\s*(.+)$`)
	opModeRE    = regexp.MustCompile(`(?m)^CPU op-mode\(s\):\s*(.+)$`)
	byteOrderRE = regexp.MustCompile(`(?m)^Byte Order:\s*(.+)$`)
	numaNodeRE  = regexp.MustCompile(`(?m)^NUMA node\(s\):\s*(.+)$`)
)

// ParseLscpu parses `lscpu` output. Architecture is the one field
// every lscpu build emits; its absence means the output isn't lscpu
// at all.
func ParseLscpu(raw string) (LscpuInfo, error) {
	m := archRE.FindStringSubmatch(raw)
	if m == nil {
		return LscpuInfo{}, &errs.ParseError{Field: "Architecture", Raw: raw}
	}
	info := LscpuInfo{Architecture: strings.TrimSpace(m[1])}
	if m := opModeRE.FindStringSubmatch(raw); m != nil {
		info.CPUOpModes = strings.TrimSpace(m[1])
	}
	if m := byteOrderRE.FindStringSubmatch(raw); m != nil {
		info.ByteOrder = strings.TrimSpace(m[1])
	}
	if m := numaNodeRE.FindStringSubmatch(raw); m != nil {
		info.NUMANodes = strings.TrimSpace(m[1])
	}
	return info, nil
}

func init() {
	register(&Spec{
		Name:     "lscpu",
		Category: "cpu",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lscpu"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lscpu"}, Reason: res.Error})
			}
			info, err := ParseLscpu(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: info}
		},
	})
}
