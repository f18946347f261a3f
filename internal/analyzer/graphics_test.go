package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestGraphicsAnalyzer_Analyze(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"lspci", "-mm"}, sysaccess.CommandResult{Success: true, Stdout: `00:02.0 "VGA compatible controller" "Intel Corporation" "UHD Graphics 630"
01:00.0 "3D controller" "NVIDIA Corporation" "GP108M"
`})
	sys.SeedCommand([]string{"xrandr"}, sysaccess.CommandResult{Success: true, Stdout: "eDP-1 connected primary 1920x1080+0+0\n   1920x1080     60.00*+\n"})
	sys.SeedCommand([]string{"lsmod"}, sysaccess.CommandResult{Success: true, Stdout: "nvidia                 12345  0\ni915                   54321  2\n"})

	src := probe.DefaultSource(sys)
	out := GraphicsAnalyzer{}.Analyze(context.Background(), src)

	require.Equal(t, 2, out["gpu_count"])
	require.True(t, out["hybrid_graphics"].(bool))
	require.Equal(t, 1, out["connected_display_count"])
	drivers := out["graphics_drivers"].([]string)
	require.Contains(t, drivers, "nvidia")
	require.Contains(t, drivers, "i915")
}
