package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/probe"
)

// DiskDetail is the per-disk composite the storage analyzer builds by
// joining lsblk's tree entry with a smartctl identify/health/attribute
// set, grounded on storage_analyzer.py's _get_disk_details.
type DiskDetail struct {
	Name       string
	Size       string
	Model      string
	IsSSD      bool
	SmartInfo  *probe.SmartInfo
	Health     probe.SmartHealth
	Attributes map[string]probe.SmartAttribute
}

// StorageAnalyzer composes lsblk/df/smartctl probes plus a mount-table
// scan for missing noatime/discard options.
type StorageAnalyzer struct{}

func (StorageAnalyzer) Name() string { return "storage" }

func (StorageAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	var devices []probe.BlockDevice
	lsRes := src.Sys.RunCommand(ctx, []string{"lsblk", "-J", "-o",
		"NAME,SIZE,TYPE,MOUNTPOINT,FSTYPE,MODEL,SERIAL,VENDOR,ROTA,TRAN"})
	if !lsRes.Success {
		out[errKey("lsblk")] = lsRes.Error
	} else if devs, err := probe.ParseLsblkJSON(lsRes.Stdout); err != nil {
		out[errKey("lsblk")] = err.Error()
	} else {
		devices = devs
		out["block_devices"] = devs
	}

	dfRes := src.Sys.RunCommand(ctx, []string{"df", "-h"})
	if !dfRes.Success {
		out[errKey("df")] = dfRes.Error
	} else {
		entries := probe.ParseDFHuman(dfRes.Stdout)
		out["filesystems"] = entries
		var highUsage []probe.DFEntry
		for _, e := range entries {
			if e.UsePercent > 80 {
				highUsage = append(highUsage, e)
			}
		}
		if len(highUsage) > 0 {
			out["high_usage_filesystems"] = highUsage
		}
	}

	var disks []DiskDetail
	for _, d := range devices {
		if d.Type != "disk" {
			continue
		}
		detail := DiskDetail{Name: d.Name, Size: d.Size, Model: d.Model, IsSSD: !d.IsRotational()}
		if info, err := probe.RunSmartInfo(ctx, src, d.Name); err == nil {
			detail.SmartInfo = &info
		}
		if health, err := probe.RunSmartHealth(ctx, src, d.Name); err == nil {
			detail.Health = health
		}
		if attrs, err := probe.RunSmartAttributes(ctx, src, d.Name); err == nil {
			detail.Attributes = attrs
		}
		disks = append(disks, detail)
	}
	if len(disks) > 0 {
		out["disks"] = disks
		out["disk_count"] = len(disks)
	}

	if raw, ok := src.Sys.ReadFile("/proc/mounts"); ok {
		out["suboptimal_mounts"] = checkMountOptions(raw, src)
	}

	return out
}

var mountLineRE = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(\S+)\s+(\S+)`)

// SuboptimalMount names one mounted ext4/xfs filesystem missing an
// option the original analyzer flags (noatime/relatime, discard on an
// SSD-backed device).
type SuboptimalMount struct {
	MountPoint    string
	MissingOption string
}

func checkMountOptions(raw string, src probe.Source) []SuboptimalMount {
	var out []SuboptimalMount
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if !strings.Contains(line, "ext4") && !strings.Contains(line, "xfs") {
			continue
		}
		m := mountLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		device, mountPoint, fsType, optsField := m[1], m[2], m[3], m[4]
		_ = fsType
		options := strings.Split(optsField, ",")
		if !hasOption(options, "noatime") && !hasOption(options, "relatime") {
			out = append(out, SuboptimalMount{MountPoint: mountPoint, MissingOption: "noatime"})
		}
		if isSSDDevice(device, src) && !hasOption(options, "discard") {
			out = append(out, SuboptimalMount{MountPoint: mountPoint, MissingOption: "discard"})
		}
	}
	return out
}

func hasOption(options []string, name string) bool {
	for _, o := range options {
		if o == name {
			return true
		}
	}
	return false
}

var trailingDigitsRE = regexp.MustCompile(`\d+$`)

func isSSDDevice(device string, src probe.Source) bool {
	base := device
	if idx := strings.LastIndex(device, "/"); idx >= 0 {
		base = device[idx+1:]
	}
	if !strings.HasPrefix(base, "sd") && !strings.HasPrefix(base, "nvme") {
		return false
	}
	base = trailingDigitsRE.ReplaceAllString(base, "")
	rota, ok := src.Sys.ReadFile("/sys/block/" + base + "/queue/rotational")
	return ok && strings.TrimSpace(rota) == "0"
}
