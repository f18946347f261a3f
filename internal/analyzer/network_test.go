package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestNetworkAnalyzer_Analyze(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"ip", "-s", "addr"}, sysaccess.CommandResult{Success: true, Stdout: `2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 state UP group default qlen 1000
    link/ether aa:bb:cc:dd:ee:ff brd ff:ff:ff:ff:ff:ff
    inet 192.168.1.10/24 brd 192.168.1.255 scope global eth0
    RX:  bytes packets errors dropped missed  mcast
    1000000  1500       0       0       0        0
    TX:  bytes packets errors dropped carrier collsns
    500000  900       0       0       0        0
`})
	sys.SeedCommand([]string{"iwconfig"}, sysaccess.CommandResult{Success: true, Stdout: "eth0      no wireless extensions.\n"})
	sys.SeedCommand([]string{"ls", "/sys/class/net/"}, sysaccess.CommandResult{Success: true, Stdout: "lo eth0\n"})
	sys.SeedFile("/sys/class/net/eth0/speed", "1000")
	sys.SeedFile("/sys/class/net/eth0/operstate", "up")

	src := probe.DefaultSource(sys)
	out := NetworkAnalyzer{}.Analyze(context.Background(), src)

	ifaces := out["interfaces"].([]probe.NetInterface)
	require.Len(t, ifaces, 1)
	require.Equal(t, "eth0", ifaces[0].Name)
	require.NotContains(t, out, "wireless_interfaces")
	sysfs := out["interface_sysfs"].(map[string]probe.NetDevSysfs)
	require.Equal(t, int64(1000), sysfs["eth0"].SpeedMbps)
	require.NotContains(t, sysfs, "lo")
}
