package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLspciMM(t *testing.T) {
	raw := `00:00.0 "Host bridge" "Intel Corporation" "8th Gen Core Processor Host Bridge" -r07 "Dell" "Device 0000"
00:02.0 "VGA compatible controller" "Intel Corporation" "UHD Graphics 630"
`
	devs, err := ParseLspciMM(raw)
	require.NoError(t, err)
	require.Len(t, devs, 2)
	require.Equal(t, "00:00.0", devs[0].Address)
	require.Equal(t, "Host bridge", devs[0].Class)
	require.Equal(t, "Intel Corporation", devs[0].Vendor)
	require.Equal(t, "Dell", devs[0].SubsystemVendor)
	require.Empty(t, devs[1].SubsystemVendor)
}

func TestParseLspciMM_NoValidAddresses(t *testing.T) {
	_, err := ParseLspciMM("garbage line with no address\n")
	require.Error(t, err)
}

func TestParseLspciVerbose(t *testing.T) {
	raw := `00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 630
	Subsystem: Dell Device 0000
	Kernel driver in use: i915
	Kernel modules: i915
01:00.0 Network controller: Intel Corporation Wireless-AC 9260
	Kernel modules: iwlwifi
`
	details := ParseLspciVerbose(raw)
	require.Len(t, details, 2)
	require.Equal(t, "00:02.0", details[0].Address)
	require.Equal(t, "i915", details[0].Driver)
	require.Equal(t, "", details[1].Driver)

	missing := DevicesWithoutDriver(details)
	require.Len(t, missing, 1)
	require.Equal(t, "01:00.0", missing[0].Address)
}
