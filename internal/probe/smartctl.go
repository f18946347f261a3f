package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// SmartInfo is the parsed form of `smartctl -i /dev/<disk>`.
type SmartInfo struct {
	ModelFamily    string
	DeviceModel    string
	SerialNumber   string
	FirmwareVer    string
	Capacity       string
	RotationRate   string
	IsSSD          bool
	SATAVersion    string
}

var smartctlFields = []struct {
	label string
	re    *regexp.Regexp
}{
	{"model_family", regexp.MustCompile(`(?m)^Model Family:\s*(.+)$`)},
	{"device_model", regexp.MustCompile(`(?m)^Device Model:\s*(.+)$`)},
	{"serial_number", regexp.MustCompile(`(?m)^Serial Number:\s*(.+)$`)},
	{"firmware_version", regexp.MustCompile(`(?m)^Firmware Version:\s*(.+)$`)},
	{"capacity", regexp.MustCompile(`(?m)^User Capacity:\s*(.+)$`)},
	{"rotation_rate", regexp.MustCompile(`(?m)^Rotation Rate:\s*(.+)$`)},
	{"sata_version", regexp.MustCompile(`(?m)^SATA Version is:\s*(.+)$`)},
}

// ParseSmartInfo parses smartctl -i output. A dump with none of the
// recognized fields present is a ParseError, since that means the
// device returned no identify block at all (e.g. an unsupported bus).
func ParseSmartInfo(raw string) (SmartInfo, error) {
	var info SmartInfo
	found := false
	if m := smartctlFields[0].re.FindStringSubmatch(raw); m != nil {
		info.ModelFamily = strings.TrimSpace(m[1])
		found = true
	}
	if m := smartctlFields[1].re.FindStringSubmatch(raw); m != nil {
		info.DeviceModel = strings.TrimSpace(m[1])
		found = true
	}
	if m := smartctlFields[2].re.FindStringSubmatch(raw); m != nil {
		info.SerialNumber = strings.TrimSpace(m[1])
		found = true
	}
	if m := smartctlFields[3].re.FindStringSubmatch(raw); m != nil {
		info.FirmwareVer = strings.TrimSpace(m[1])
		found = true
	}
	if m := smartctlFields[4].re.FindStringSubmatch(raw); m != nil {
		info.Capacity = strings.TrimSpace(m[1])
		found = true
	}
	if m := smartctlFields[5].re.FindStringSubmatch(raw); m != nil {
		info.RotationRate = strings.TrimSpace(m[1])
		info.IsSSD = strings.Contains(info.RotationRate, "Solid State Device")
		found = true
	}
	if m := smartctlFields[6].re.FindStringSubmatch(raw); m != nil {
		info.SATAVersion = strings.TrimSpace(m[1])
		found = true
	}
	if !found {
		return SmartInfo{}, &errs.ParseError{Field: "device_model", Raw: raw}
	}
	return info, nil
}

// SmartHealth is the tri-state outcome of `smartctl -H`.
type SmartHealth string

const (
	SmartPassed  SmartHealth = "PASSED"
	SmartFailed  SmartHealth = "FAILED"
	SmartUnknown SmartHealth = "UNKNOWN"
)

// ParseSmartHealth classifies a `smartctl -H` dump.
func ParseSmartHealth(raw string) SmartHealth {
	switch {
	case strings.Contains(raw, "PASSED"):
		return SmartPassed
	case strings.Contains(raw, "FAILED"):
		return SmartFailed
	default:
		return SmartUnknown
	}
}

// SmartAttribute is one row of the `smartctl -A` attribute table.
type SmartAttribute struct {
	ID        int
	Name      string
	Value     int
	Worst     int
	Threshold int
	Raw       string
}

// ParseSmartAttributes parses the `ID# ATTRIBUTE_NAME ...` table from
// `smartctl -A`. Rows that don't match the expected column count are
// skipped rather than failing the whole attribute set.
func ParseSmartAttributes(raw string) map[string]SmartAttribute {
	attrs := map[string]SmartAttribute{}
	idx := strings.Index(raw, "ID# ATTRIBUTE_NAME")
	if idx == -1 {
		return attrs
	}
	lines := strings.Split(strings.TrimSpace(raw[idx:]), "\n")
	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) < 10 {
			continue
		}
		id, err1 := strconv.Atoi(parts[0])
		value, err2 := strconv.Atoi(parts[3])
		worst, err3 := strconv.Atoi(parts[4])
		thresh, err4 := strconv.Atoi(parts[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		attrs[parts[1]] = SmartAttribute{
			ID: id, Name: parts[1], Value: value, Worst: worst,
			Threshold: thresh, Raw: parts[9],
		}
	}
	return attrs
}

// RunSmartInfo invokes `smartctl -i /dev/<disk>` for one disk, used by
// the storage analyzer which iterates lsblk's disk list.
func RunSmartInfo(ctx context.Context, src Source, disk string) (SmartInfo, error) {
	res := src.Sys.RunCommand(ctx, []string{"smartctl", "-i", "/dev/" + disk})
	if !res.Success {
		return SmartInfo{}, &errs.CommandFailed{Argv: []string{"smartctl", "-i", "/dev/" + disk}, Reason: res.Error}
	}
	return ParseSmartInfo(res.Stdout)
}

// RunSmartHealth invokes `smartctl -H /dev/<disk>`.
func RunSmartHealth(ctx context.Context, src Source, disk string) (SmartHealth, error) {
	res := src.Sys.RunCommand(ctx, []string{"smartctl", "-H", "/dev/" + disk})
	if !res.Success {
		return SmartUnknown, &errs.CommandFailed{Argv: []string{"smartctl", "-H", "/dev/" + disk}, Reason: res.Error}
	}
	return ParseSmartHealth(res.Stdout), nil
}

// RunSmartAttributes invokes `smartctl -A /dev/<disk>`.
func RunSmartAttributes(ctx context.Context, src Source, disk string) (map[string]SmartAttribute, error) {
	res := src.Sys.RunCommand(ctx, []string{"smartctl", "-A", "/dev/" + disk})
	if !res.Success {
		return nil, &errs.CommandFailed{Argv: []string{"smartctl", "-A", "/dev/" + disk}, Reason: res.Error}
	}
	return ParseSmartAttributes(res.Stdout), nil
}
