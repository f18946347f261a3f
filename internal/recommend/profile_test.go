package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyCPUCores(t *testing.T) {
	require.Equal(t, "single", classifyCPUCores(1))
	require.Equal(t, "few", classifyCPUCores(4))
	require.Equal(t, "multi", classifyCPUCores(16))
	require.Equal(t, "many", classifyCPUCores(32))
}

func TestClassifyMemorySize(t *testing.T) {
	require.Equal(t, "small", classifyMemorySize(2*kbPerGiB))
	require.Equal(t, "medium", classifyMemorySize(16*kbPerGiB))
	require.Equal(t, "large", classifyMemorySize(64*kbPerGiB))
	require.Equal(t, "very_large", classifyMemorySize(128*kbPerGiB))
}

func TestClassifyStorageType(t *testing.T) {
	require.Equal(t, "hdd", classifyStorageType([]DiskInfo{{Name: "sda", IsSSD: false}}))
	require.Equal(t, "ssd", classifyStorageType([]DiskInfo{{Name: "sda", IsSSD: true}}))
	require.Equal(t, "nvme", classifyStorageType([]DiskInfo{{Name: "nvme0n1", IsSSD: true}}))
}

func TestClassifyNetworkType(t *testing.T) {
	require.Equal(t, "ethernet", classifyNetworkType([]InterfaceInfo{{Wireless: false}}))
	require.Equal(t, "wireless", classifyNetworkType([]InterfaceInfo{{Wireless: false}, {Wireless: true}}))
}

func TestClassifyGraphicsType(t *testing.T) {
	require.Equal(t, "integrated", classifyGraphicsType([]GPUInfo{{Vendor: "Intel"}}))
	require.Equal(t, "dedicated", classifyGraphicsType([]GPUInfo{{Vendor: "NVIDIA"}}))
	require.Equal(t, "dedicated", classifyGraphicsType([]GPUInfo{{Vendor: "AMD"}}))
}

func TestClassifySystemType(t *testing.T) {
	require.Equal(t, "server", classifySystemType("Intel Xeon Server CPU"))
	require.Equal(t, "laptop", classifySystemType("Intel Core i7 Mobile"))
	require.Equal(t, "desktop", classifySystemType("AMD Ryzen 5"))
}

func TestDeriveProfile(t *testing.T) {
	hw := HardwareInfo{
		CPUModelName: "Intel Core i7 Mobile",
		CPUCores:     8,
		MemoryKB:     16 * kbPerGiB,
		Disks:        []DiskInfo{{Name: "nvme0n1", IsSSD: true}},
		Interfaces:   []InterfaceInfo{{Wireless: true}},
		GPUs:         []GPUInfo{{Vendor: "Intel"}},
	}
	profile := DeriveProfile(hw)
	require.Equal(t, HardwareProfile{
		SystemType:   "laptop",
		CPUCores:     "multi",
		MemorySize:   "medium",
		StorageType:  "nvme",
		NetworkType:  "wireless",
		GraphicsType: "integrated",
	}, profile)
}
