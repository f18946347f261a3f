package probe

import (
	"context"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// KConfigOption is one CONFIG_* entry parsed from a kernel .config.
type KConfigOption struct {
	Name  string
	Value string
}

// ParseKernelConfig parses a kernel .config (as produced by `zcat
// /proc/config.gz` or a /boot/config-<release> dump): "CONFIG_X=y"
// lines, "# CONFIG_X is not set" comments are ignored like the
// original since they carry no explicit value, blank/"#"-led lines
// skipped otherwise. An empty result means the config blob had no
// "=" lines at all — always a ParseError, never a silently-empty set.
func ParseKernelConfig(raw string) (map[string]KConfigOption, error) {
	options := map[string]KConfigOption{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		options[name] = KConfigOption{Name: name, Value: value}
	}
	if len(options) == 0 {
		return nil, &errs.ParseError{Field: "CONFIG_", Raw: raw}
	}
	return options, nil
}

// IsValueCompliant reports whether current satisfies recommended,
// following the exact alias/inequality rules of the analyzer this was
// ported from: exact match; y-aliases {y,1,yes,true}; n-aliases
// {n,0,no,false}; ">=N"/"<=N" integer bounds. Anything else is
// non-compliant, including an unparsable ">=N"/"<=N" operand.
func IsValueCompliant(current, recommended string) bool {
	if current == recommended {
		return true
	}
	if recommended == "y" {
		switch current {
		case "y", "1", "yes", "true":
			return true
		}
	}
	if recommended == "n" {
		switch current {
		case "n", "0", "no", "false":
			return true
		}
	}
	if strings.HasPrefix(recommended, ">=") {
		min, err1 := strconv.Atoi(recommended[2:])
		cur, err2 := strconv.Atoi(current)
		if err1 == nil && err2 == nil {
			return cur >= min
		}
	}
	if strings.HasPrefix(recommended, "<=") {
		max, err1 := strconv.Atoi(recommended[2:])
		cur, err2 := strconv.Atoi(current)
		if err1 == nil && err2 == nil {
			return cur <= max
		}
	}
	return false
}

func init() {
	register(&Spec{
		Name:     "kernel_config",
		Category: "kernel",
		Collect: func(ctx context.Context, src Source) Result {
			if src.Sys.FileExists("/proc/config.gz") {
				res := src.Sys.RunCommand(ctx, []string{"zcat", "/proc/config.gz"})
				if res.Success {
					opts, err := ParseKernelConfig(res.Stdout)
					if err == nil {
						return Result{Value: opts}
					}
				}
			}
			uname := src.Sys.RunCommand(ctx, []string{"uname", "-r"})
			if uname.Success {
				path := "/boot/config-" + strings.TrimSpace(uname.Stdout)
				if raw, ok := src.Sys.ReadFile(path); ok {
					opts, err := ParseKernelConfig(raw)
					if err != nil {
						return errResult(err)
					}
					return Result{Value: opts}
				}
			}
			return errResult(&errs.FileMissing{Path: "/proc/config.gz", Reason: "no kernel config source available"})
		},
	})
}
