package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestStorageAnalyzer_Analyze(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"lsblk", "-J", "-o", "NAME,SIZE,TYPE,MOUNTPOINT,FSTYPE,MODEL,SERIAL,VENDOR,ROTA,TRAN"},
		sysaccess.CommandResult{Success: true, Stdout: `{"blockdevices":[{"name":"sda","size":"500G","type":"disk","rota":"0","tran":"sata"}]}`})
	sys.SeedCommand([]string{"df", "-h"}, sysaccess.CommandResult{Success: true, Stdout: "Filesystem      Size  Used Avail Use% Mounted on\n/dev/sda1        50G   46G  2.0G  92% /\n"})
	sys.SeedCommand([]string{"smartctl", "-i", "/dev/sda"}, sysaccess.CommandResult{Success: true, Stdout: "Device Model:     Samsung SSD 970\n"})
	sys.SeedCommand([]string{"smartctl", "-H", "/dev/sda"}, sysaccess.CommandResult{Success: true, Stdout: "SMART overall-health self-assessment test result: PASSED\n"})
	sys.SeedCommand([]string{"smartctl", "-A", "/dev/sda"}, sysaccess.CommandResult{Success: true, Stdout: ""})
	sys.SeedFile("/proc/mounts", "/dev/sda1 / ext4 rw,relatime 0 0\n")
	sys.SeedFile("/sys/block/sda/queue/rotational", "0")

	src := probe.DefaultSource(sys)
	out := StorageAnalyzer{}.Analyze(context.Background(), src)

	require.Equal(t, 1, out["disk_count"])
	disks := out["disks"].([]DiskDetail)
	require.Equal(t, probe.SmartPassed, disks[0].Health)
	require.True(t, disks[0].IsSSD)
	fsHigh := out["high_usage_filesystems"].([]probe.DFEntry)
	require.Len(t, fsHigh, 1)
	mounts := out["suboptimal_mounts"].([]SuboptimalMount)
	require.Len(t, mounts, 1)
	require.Equal(t, "discard", mounts[0].MissingOption)
}
