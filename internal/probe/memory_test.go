package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumactlHardware(t *testing.T) {
	raw := `available: 2 nodes (0-1)
node 0 cpus: 0 1 2 3
node 0 size: 16000 MB
node distances:
node   0   1
  0:  10  21
  1:  21  10
`
	n := ParseNumactlHardware(raw)
	require.Equal(t, 2, n.Nodes)
	require.Contains(t, n.NodeDistances, "10  21")
}

func TestParseBuddyInfo(t *testing.T) {
	raw := "Node 0, zone      DMA     1     1     1     0     0     0     0     0     0     1     3\n" +
		"Node 0, zone    Normal  200   150   100    50    10     5     2     1     0     0     0\n"
	report := ParseBuddyInfo(raw)
	require.True(t, report.Fragmented)
	require.Len(t, report.Nodes, 2)
	require.Equal(t, "DMA", report.Nodes[0].Zone)
}
