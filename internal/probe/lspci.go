package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// PCIDevice is one `lspci -mm` row: an unquoted address, three
// mandatory quoted fields (class, vendor, device) plus two optional
// subsystem fields.
type PCIDevice struct {
	Address          string
	Class            string
	Vendor           string
	Device           string
	SubsystemVendor  string
	SubsystemDevice  string
}

// pciAddrRE matches a canonical PCI address, with an optional domain,
// per the published lspci -mm grammar (the Python original's address
// regex has an unbalanced character class and silently matches
// nothing; this follows the documented format instead).
var pciAddrRE = regexp.MustCompile(`^([0-9a-f]{4}:)?[0-9a-f]{2}:[0-9a-f]{2}\.[0-9a-f]$`)

var quotedFieldRE = regexp.MustCompile(`"([^"]*)"`)

// ParseLspciMM parses `lspci -mm` output: one device per line, fields
// quoted. A line whose first field is not a valid PCI address is
// skipped rather than failing the whole probe.
func ParseLspciMM(raw string) ([]PCIDevice, error) {
	var devices []PCIDevice
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		if len(fields) < 1 || !pciAddrRE.MatchString(fields[0]) {
			continue
		}
		rest := ""
		if len(fields) == 2 {
			rest = fields[1]
		}
		parts := quotedFieldRE.FindAllStringSubmatch(rest, -1)
		if len(parts) < 3 {
			continue
		}
		d := PCIDevice{Address: fields[0], Class: parts[0][1], Vendor: parts[1][1], Device: parts[2][1]}
		if len(parts) >= 5 {
			d.SubsystemVendor = parts[3][1]
			d.SubsystemDevice = parts[4][1]
		}
		devices = append(devices, d)
	}
	if devices == nil {
		return nil, &errs.ParseError{Field: "pci address", Raw: raw}
	}
	return devices, nil
}

// PCIDetail is one device's section of `lspci -vvv`/`lspci -k`.
type PCIDetail struct {
	Address      string
	Description  string
	VendorID     string
	DeviceID     string
	Driver       string
	Modules      []string
}

var (
	pciSectionSplitRE = regexp.MustCompile(`(?m)^(?:[0-9a-f]{4}:)?[0-9a-f]{2}:[0-9a-f]{2}\.[0-9a-f] `)
	pciSectionHeadRE  = regexp.MustCompile(`^((?:[0-9a-f]{4}:)?[0-9a-f]{2}:[0-9a-f]{2}\.[0-9a-f]) (.+?):`)
	pciDeviceIDRE     = regexp.MustCompile(`(?m)^\s*Device:\s*([0-9a-f]{4}):([0-9a-f]{4})`)
	pciDriverRE       = regexp.MustCompile(`(?m)^\s*Kernel driver in use:\s*(.+)$`)
	pciModulesRE      = regexp.MustCompile(`(?m)^\s*Kernel modules:\s*(.+)$`)
)

// ParseLspciVerbose splits `lspci -vvv` or `lspci -k` into per-device
// sections, extracting the fields the compatibility analyzer needs.
func ParseLspciVerbose(raw string) []PCIDetail {
	idx := pciSectionSplitRE.FindAllStringIndex(raw, -1)
	if idx == nil {
		return nil
	}
	var out []PCIDetail
	for i, loc := range idx {
		end := len(raw)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		section := raw[loc[0]:end]
		head := pciSectionHeadRE.FindStringSubmatch(section)
		d := PCIDetail{}
		if head != nil {
			d.Address = head[1]
			d.Description = strings.TrimSpace(head[2])
		}
		if m := pciDeviceIDRE.FindStringSubmatch(section); m != nil {
			d.VendorID, d.DeviceID = m[1], m[2]
		}
		if m := pciDriverRE.FindStringSubmatch(section); m != nil {
			d.Driver = strings.TrimSpace(m[1])
		}
		if m := pciModulesRE.FindStringSubmatch(section); m != nil {
			for _, mod := range strings.Split(m[1], ",") {
				d.Modules = append(d.Modules, strings.TrimSpace(mod))
			}
		}
		out = append(out, d)
	}
	return out
}

// DevicesWithoutDriver returns the devices in details whose "Kernel
// driver in use" line was absent, per lspci -k.
func DevicesWithoutDriver(details []PCIDetail) []PCIDetail {
	var out []PCIDetail
	for _, d := range details {
		if d.Driver == "" {
			out = append(out, d)
		}
	}
	return out
}

func init() {
	register(&Spec{
		Name:     "lspci_mm",
		Category: "pci",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lspci", "-mm"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lspci", "-mm"}, Reason: res.Error})
			}
			devs, err := ParseLspciMM(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: devs}
		},
	})

	register(&Spec{
		Name:     "lspci_vvv",
		Category: "pci",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lspci", "-vvv"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lspci", "-vvv"}, Reason: res.Error})
			}
			return Result{Value: ParseLspciVerbose(res.Stdout)}
		},
	})

	register(&Spec{
		Name:     "lspci_k",
		Category: "pci",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lspci", "-k"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lspci", "-k"}, Reason: res.Error})
			}
			return Result{Value: ParseLspciVerbose(res.Stdout)}
		},
	})
}
