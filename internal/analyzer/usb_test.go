package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestUSBAnalyzer_RealtekDetection(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"lsusb"}, sysaccess.CommandResult{Success: true, Stdout: "Bus 001 Device 003: ID 0bda:8723 Realtek Semiconductor Corp. RTL8723BE\n"})
	sys.SeedCommand([]string{"lsusb", "-t"}, sysaccess.CommandResult{Success: true, Stdout: "Port 1: Dev 1, If 0, Class=root_hub, Driver=xhci_hcd/2p, 5000M\n"})
	sys.SeedCommand([]string{"uname", "-r"}, sysaccess.CommandResult{Success: true, Stdout: "5.15.0-generic\n"})

	src := probe.DefaultSource(sys)
	out := USBAnalyzer{}.Analyze(context.Background(), src)

	require.Equal(t, 1, out["device_count"])
	issues := out["compatibility_issues"].([]CompatibilityIssue)
	require.Len(t, issues, 1)
	require.Equal(t, "realtek_wifi", issues[0].Type)
	require.Equal(t, "5.15.0-generic", out["kernel_version"])
}
