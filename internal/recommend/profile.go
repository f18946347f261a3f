package recommend

import "strings"

// HardwareInfo is the subset of the analyzer layer's output the
// profiler and rule base need, decoupled from the raw
// analyzer.Result maps so this package has no import-time dependency
// on internal/analyzer.
type HardwareInfo struct {
	CPUModelName string
	CPUCores     int
	MemoryKB     uint64
	Disks        []DiskInfo
	Interfaces   []InterfaceInfo
	GPUs         []GPUInfo
}

type DiskInfo struct {
	Name  string
	IsSSD bool
}

type InterfaceInfo struct {
	Wireless bool
}

type GPUInfo struct {
	Vendor string
}

// HardwareProfile is the derived categorical descriptor the rule
// base's profile-overlay layer reads.
type HardwareProfile struct {
	SystemType   string // desktop, laptop, server
	CPUCores     string // single, few, multi, many
	MemorySize   string // small, medium, large, very_large
	StorageType  string // hdd, ssd, nvme
	NetworkType  string // ethernet, wireless
	GraphicsType string // integrated, dedicated
}

// DeriveProfile classifies hw into a HardwareProfile using the exact
// thresholds spec.md §4.5 names.
func DeriveProfile(hw HardwareInfo) HardwareProfile {
	return HardwareProfile{
		SystemType:   classifySystemType(hw.CPUModelName),
		CPUCores:     classifyCPUCores(hw.CPUCores),
		MemorySize:   classifyMemorySize(hw.MemoryKB),
		StorageType:  classifyStorageType(hw.Disks),
		NetworkType:  classifyNetworkType(hw.Interfaces),
		GraphicsType: classifyGraphicsType(hw.GPUs),
	}
}

func classifySystemType(modelName string) string {
	lower := strings.ToLower(modelName)
	switch {
	case strings.Contains(lower, "server"):
		return "server"
	case strings.Contains(lower, "mobile"):
		return "laptop"
	default:
		return "desktop"
	}
}

func classifyCPUCores(cores int) string {
	switch {
	case cores <= 1:
		return "single"
	case cores <= 4:
		return "few"
	case cores <= 16:
		return "multi"
	default:
		return "many"
	}
}

const (
	kbPerGiB = 1024 * 1024
)

func classifyMemorySize(kb uint64) string {
	gib := float64(kb) / kbPerGiB
	switch {
	case gib < 4:
		return "small"
	case gib <= 16:
		return "medium"
	case gib <= 64:
		return "large"
	default:
		return "very_large"
	}
}

func classifyStorageType(disks []DiskInfo) string {
	hasSSD := false
	for _, d := range disks {
		if strings.Contains(strings.ToLower(d.Name), "nvme") {
			return "nvme"
		}
		if d.IsSSD {
			hasSSD = true
		}
	}
	if hasSSD {
		return "ssd"
	}
	return "hdd"
}

func classifyNetworkType(ifaces []InterfaceInfo) string {
	for _, i := range ifaces {
		if i.Wireless {
			return "wireless"
		}
	}
	return "ethernet"
}

func classifyGraphicsType(gpus []GPUInfo) string {
	for _, g := range gpus {
		v := strings.ToUpper(g.Vendor)
		if strings.Contains(v, "NVIDIA") || strings.Contains(v, "AMD") {
			return "dedicated"
		}
	}
	return "integrated"
}
