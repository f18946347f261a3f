package probe

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// ModprobeOption is one derived option from /etc/modprobe.d/*.conf —
// either a module "options" line or a "blacklist" directive,
// normalized into the same KConfigOption shape the kernel-config
// analyzer compares against its rule base.
type ModprobeOption struct {
	Name  string
	Value string
}

// ParseModprobeConf parses one modprobe.d file's content into zero or
// more derived options. Unrecognized directives (alias, install,
// remove, softdep) are intentionally ignored — they carry no
// comparable CONFIG_-shaped value for the rule base.
func ParseModprobeConf(raw string) []ModprobeOption {
	var opts []ModprobeOption
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "options "):
			parts := strings.SplitN(line, " ", 3)
			if len(parts) >= 3 {
				module := parts[1]
				opts = append(opts, ModprobeOption{
					Name:  "MODPROBE_" + strings.ToUpper(module),
					Value: parts[2],
				})
			}
		case strings.HasPrefix(line, "blacklist "):
			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 {
				module := strings.TrimSpace(parts[1])
				opts = append(opts, ModprobeOption{
					Name:  "MODPROBE_BLACKLIST_" + strings.ToUpper(module),
					Value: "y",
				})
			}
		}
	}
	return opts
}

// ListModprobeConfFiles lists the *.conf files directly under
// /etc/modprobe.d, used by the collector to know which files to read.
func ListModprobeConfFiles(ctx context.Context, src Source) ([]string, error) {
	dir := "/etc/modprobe.d"
	if !src.Sys.FileExists(dir) {
		return nil, nil
	}
	res := src.Sys.RunCommand(ctx, []string{"sh", "-c", "ls " + filepath.Join(dir, "*.conf")})
	if !res.Success {
		return nil, nil
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func init() {
	register(&Spec{
		Name:     "modprobe_conf",
		Category: "kernel",
		Collect: func(ctx context.Context, src Source) Result {
			files, err := ListModprobeConfFiles(ctx, src)
			if err != nil {
				return errResult(err)
			}
			all := map[string]ModprobeOption{}
			for _, f := range files {
				raw, ok := src.Sys.ReadFile(f)
				if !ok {
					continue
				}
				for _, opt := range ParseModprobeConf(raw) {
					all[opt.Name] = opt
				}
			}
			if len(all) == 0 {
				return errResult(&errs.FileMissing{Path: "/etc/modprobe.d", Reason: "no modprobe overrides found"})
			}
			return Result{Value: all}
		},
	})
}
