package analyzer

import (
	"context"
	"strings"

	"github.com/infenix/sysdiag/internal/probe"
)

// configRule is one evaluated CONFIG_ option, grounded on the security/
// performance option tables in config_analyzer.py.
type configRule struct {
	Name        string
	Recommended string
	Description string
	Category    string // "security" or "performance"
}

// securityOptions and performanceOptions are a representative subset
// of the original analyzer's option tables (the originals carry far
// more entries; these cover the categories the recommendation engine's
// kconfig rule base exercises).
var securityOptions = []configRule{
	{"CONFIG_SECURITY", "y", "Enable different security models", "security"},
	{"CONFIG_SECURITY_SELINUX", "y", "NSA SELinux Support", "security"},
	{"CONFIG_SECURITY_APPARMOR", "y", "AppArmor support", "security"},
	{"CONFIG_HARDENED_USERCOPY", "y", "Hardened usercopy", "security"},
	{"CONFIG_SLAB_FREELIST_RANDOM", "y", "Randomize slab freelist", "security"},
	{"CONFIG_PAGE_TABLE_ISOLATION", "y", "Kernel page table isolation (KPTI)", "security"},
	{"CONFIG_RANDOMIZE_BASE", "y", "Randomize the address of the kernel image (KASLR)", "security"},
	{"CONFIG_STRICT_KERNEL_RWX", "y", "Make kernel text and rodata read-only", "security"},
	{"CONFIG_STACKPROTECTOR_STRONG", "y", "Strong Stack Protector", "security"},
	{"CONFIG_FORTIFY_SOURCE", "y", "Detect buffer overflows", "security"},
	{"CONFIG_SYN_COOKIES", "y", "TCP SYN cookie protection", "security"},
	{"CONFIG_INET_DIAG", "n", "INET socket monitoring interface", "security"},
}

var performanceOptions = []configRule{
	{"CONFIG_PREEMPT", "y", "Low-latency preemptible kernel", "performance"},
	{"CONFIG_HZ", ">=250", "Kernel timer frequency", "performance"},
	{"CONFIG_SCHED_AUTOGROUP", "y", "Automatic process group scheduling", "performance"},
	{"CONFIG_TRANSPARENT_HUGEPAGE", "y", "Transparent huge pages", "performance"},
	{"CONFIG_TRANSPARENT_HUGEPAGE_MADVISE", "y", "THP only via madvise", "performance"},
	{"CONFIG_BLK_CGROUP", "y", "Block I/O controller cgroup", "performance"},
}

// ConfigFinding is one rule-base evaluation result, either a good
// practice (compliant) or an issue (non-compliant/missing).
type ConfigFinding struct {
	Option      string
	Category    string
	CurrentValue string
	Recommended string
	Description string
	Compliant   bool
	Present     bool
}

// KernelConfigAnalyzer composes the kernel .config, modprobe overrides
// and /proc/cmdline probes into per-option compliance findings plus a
// 0-100 security/performance score, grounded on config_analyzer.py's
// analyze_config.
type KernelConfigAnalyzer struct{}

func (KernelConfigAnalyzer) Name() string { return "kernel_config" }

func (KernelConfigAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	opts, err := readKernelConfig(ctx, src)
	if err != nil {
		out[errKey("kernel_config")] = err.Error()
		return out
	}
	out["option_count"] = len(opts)

	securityFindings := evaluateRules(opts, securityOptions)
	performanceFindings := evaluateRules(opts, performanceOptions)
	out["security_findings"] = securityFindings
	out["performance_findings"] = performanceFindings
	out["security_score"] = score(securityFindings)
	out["performance_score"] = score(performanceFindings)

	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/cmdline"); ok {
		out["cmdline_params"] = probe.CmdlineParams(raw)
	}

	files, ferr := probe.ListModprobeConfFiles(ctx, src)
	if ferr == nil && len(files) > 0 {
		mods := map[string]string{}
		for _, f := range files {
			raw, ok := src.Sys.ReadFile(f)
			if !ok {
				continue
			}
			for _, opt := range probe.ParseModprobeConf(raw) {
				mods[opt.Name] = opt.Value
			}
		}
		if len(mods) > 0 {
			out["modprobe_overrides"] = mods
		}
	}

	return out
}

func readKernelConfig(ctx context.Context, src probe.Source) (map[string]probe.KConfigOption, error) {
	if src.Sys.FileExists("/proc/config.gz") {
		res := src.Sys.RunCommand(ctx, []string{"zcat", "/proc/config.gz"})
		if res.Success {
			if opts, err := probe.ParseKernelConfig(res.Stdout); err == nil {
				return opts, nil
			}
		}
	}
	uname := src.Sys.RunCommand(ctx, []string{"uname", "-r"})
	if uname.Success {
		path := "/boot/config-" + strings.TrimSpace(uname.Stdout)
		if raw, ok := src.Sys.ReadFile(path); ok {
			return probe.ParseKernelConfig(raw)
		}
	}
	return nil, &cmdErr{"kernel config", "no config.gz or /boot/config-<release> available"}
}

func evaluateRules(opts map[string]probe.KConfigOption, rules []configRule) []ConfigFinding {
	findings := make([]ConfigFinding, 0, len(rules))
	for _, r := range rules {
		opt, present := opts[r.Name]
		f := ConfigFinding{
			Option:      r.Name,
			Category:    r.Category,
			Recommended: r.Recommended,
			Description: r.Description,
			Present:     present,
		}
		if present {
			f.CurrentValue = opt.Value
			f.Compliant = probe.IsValueCompliant(opt.Value, r.Recommended)
		}
		findings = append(findings, f)
	}
	return findings
}

func score(findings []ConfigFinding) int {
	if len(findings) == 0 {
		return 0
	}
	compliant := 0
	for _, f := range findings {
		if f.Present && f.Compliant {
			compliant++
		}
	}
	return compliant * 100 / len(findings)
}
