package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLsusb(t *testing.T) {
	raw := `Bus 001 Device 002: ID 8087:0024 Intel Corp. Integrated Rate Matching Hub
Bus 002 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub
`
	devs, err := ParseLsusb(raw)
	require.NoError(t, err)
	require.Len(t, devs, 2)
	require.Equal(t, "8087", devs[0].VendorID)
	require.Equal(t, "Intel Corp. Integrated Rate Matching Hub", devs[0].Description)
}

func TestParseLsusb_Empty(t *testing.T) {
	_, err := ParseLsusb("\n")
	require.Error(t, err)
}

func TestParseUSBTree(t *testing.T) {
	raw := `Port 1: Dev 1, If 0, Class=root_hub, Driver=xhci_hcd/6p, 5000M
    |__ Port 1: Dev 2, If 0, Class=Hub, Driver=hub, 5000M
        |__ Port 2: Dev 3, If 0, Class=Mass Storage, Driver=usb-storage, 5000M
    |__ Port 4: Dev 4, If 0, Class=Human Interface Device, Driver=usbhid, 12M
`
	roots := ParseUSBTree(raw)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 2)
	require.Len(t, roots[0].Children[0].Children, 1)
	require.Equal(t, "usb-storage", roots[0].Children[0].Children[0].Driver)
}
