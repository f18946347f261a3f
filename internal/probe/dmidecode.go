package probe

import (
	"context"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// MemoryModule is one `dmidecode -t 17` handle (a populated or empty
// DIMM slot).
type MemoryModule struct {
	Size          string
	Type          string
	Speed         string
	Manufacturer  string
	Locator       string
	Populated     bool
}

// ParseDmidecodeType17 splits `dmidecode -t 17` into one MemoryModule
// per "Memory Device" handle. An empty-slot handle (Size: No Module
// Installed) is kept with Populated=false so the memory analyzer can
// report free DIMM slots.
func ParseDmidecodeType17(raw string) ([]MemoryModule, error) {
	handles := strings.Split(raw, "Memory Device")
	var modules []MemoryModule
	for _, h := range handles[1:] {
		m := MemoryModule{}
		for _, line := range strings.Split(h, "\n") {
			key, val, ok := splitColon(line)
			if !ok {
				continue
			}
			switch key {
			case "Size":
				m.Size = val
				m.Populated = val != "" && !strings.Contains(val, "No Module Installed")
			case "Type":
				if m.Type == "" {
					m.Type = val
				}
			case "Speed":
				m.Speed = val
			case "Manufacturer":
				m.Manufacturer = val
			case "Locator":
				if m.Locator == "" {
					m.Locator = val
				}
			}
		}
		modules = append(modules, m)
	}
	if modules == nil {
		return nil, &errs.ParseError{Field: "Memory Device", Raw: raw}
	}
	return modules, nil
}

// SystemInfo is the `dmidecode -t 1` system summary (manufacturer,
// product name, version). The hardware-profile classifier does not read
// it; system_type is derived from the CPU model name.
type SystemInfo struct {
	Manufacturer string
	ProductName  string
	Version      string
}

// ParseDmidecodeType1 parses `dmidecode -t 1` ("System Information").
func ParseDmidecodeType1(raw string) (SystemInfo, error) {
	var s SystemInfo
	found := false
	for _, line := range strings.Split(raw, "\n") {
		key, val, ok := splitColon(line)
		if !ok {
			continue
		}
		switch key {
		case "Manufacturer":
			s.Manufacturer = val
			found = true
		case "Product Name":
			s.ProductName = val
			found = true
		case "Version":
			s.Version = val
		}
	}
	if !found {
		return SystemInfo{}, &errs.ParseError{Field: "Manufacturer", Raw: raw}
	}
	return s, nil
}

// ChassisMaxCapacity is the `dmidecode -t 16` physical memory array's
// maximum installable capacity, in KB.
type ChassisMaxCapacity struct {
	MaxCapacityKB uint64
}

// ParseDmidecodeType16 parses `dmidecode -t 16` ("Physical Memory
// Array") for the maximum installable capacity.
func ParseDmidecodeType16(raw string) (ChassisMaxCapacity, error) {
	for _, line := range strings.Split(raw, "\n") {
		key, val, ok := splitColon(line)
		if !ok || key != "Maximum Capacity" {
			continue
		}
		kb, ok := toKB(val)
		if !ok {
			continue
		}
		return ChassisMaxCapacity{MaxCapacityKB: kb}, nil
	}
	return ChassisMaxCapacity{}, &errs.ParseError{Field: "Maximum Capacity", Raw: raw}
}

func toKB(sizeStr string) (uint64, bool) {
	fields := strings.Fields(sizeStr)
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(fields[1]) {
	case "TB":
		return n * 1024 * 1024 * 1024, true
	case "GB":
		return n * 1024 * 1024, true
	case "MB":
		return n * 1024, true
	case "KB":
		return n, true
	default:
		return 0, false
	}
}

func init() {
	register(&Spec{
		Name:     "dmidecode_memory",
		Category: "memory",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"dmidecode", "-t", "17"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"dmidecode", "-t", "17"}, Reason: res.Error})
			}
			mods, err := ParseDmidecodeType17(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: mods}
		},
	})

	register(&Spec{
		Name:     "dmidecode_system",
		Category: "system",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"dmidecode", "-t", "1"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"dmidecode", "-t", "1"}, Reason: res.Error})
			}
			info, err := ParseDmidecodeType1(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: info}
		},
	})

	register(&Spec{
		Name:     "dmidecode_chassis",
		Category: "memory",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"dmidecode", "-t", "16"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"dmidecode", "-t", "16"}, Reason: res.Error})
			}
			cap, err := ParseDmidecodeType16(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: cap}
		},
	})
}
