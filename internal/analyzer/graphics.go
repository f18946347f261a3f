package analyzer

import (
	"context"
	"regexp"

	"github.com/infenix/sysdiag/internal/probe"
)

var (
	nvidiaModRE  = regexp.MustCompile(`(?m)^nvidia\s+`)
	amdgpuModRE  = regexp.MustCompile(`(?m)^amdgpu\s+`)
	i915ModRE    = regexp.MustCompile(`(?m)^i915\s+`)
	nouveauModRE = regexp.MustCompile(`(?m)^nouveau\s+`)
)

// GraphicsAnalyzer composes lspci (VGA/3D controllers), xrandr, and
// lsmod-based driver detection, grounded on graphics_analyzer.py.
type GraphicsAnalyzer struct{}

func (GraphicsAnalyzer) Name() string { return "graphics" }

func (GraphicsAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	mmRes := src.Sys.RunCommand(ctx, []string{"lspci", "-mm"})
	if !mmRes.Success {
		out[errKey("lspci_mm")] = mmRes.Error
	} else if devices, err := probe.ParseLspciMM(mmRes.Stdout); err != nil {
		out[errKey("lspci_mm")] = err.Error()
	} else {
		cards := probe.ClassifyGraphicsCards(devices)
		out["gpus"] = cards
		out["gpu_count"] = len(cards)
		out["hybrid_graphics"] = len(cards) > 1
	}

	xrandrRes := src.Sys.RunCommand(ctx, []string{"xrandr"})
	if xrandrRes.Success {
		displays := probe.ParseXrandr(xrandrRes.Stdout)
		out["displays"] = displays
		connected := 0
		for _, d := range displays {
			if d.Connected {
				connected++
			}
		}
		out["connected_display_count"] = connected
	} else {
		out[errKey("xrandr")] = xrandrRes.Error
	}

	lsmodRes := src.Sys.RunCommand(ctx, []string{"lsmod"})
	if lsmodRes.Success {
		var drivers []string
		if nvidiaModRE.MatchString(lsmodRes.Stdout) {
			drivers = append(drivers, "nvidia")
		}
		if amdgpuModRE.MatchString(lsmodRes.Stdout) {
			drivers = append(drivers, "amdgpu")
		}
		if i915ModRE.MatchString(lsmodRes.Stdout) {
			drivers = append(drivers, "i915")
		}
		if nouveauModRE.MatchString(lsmodRes.Stdout) {
			drivers = append(drivers, "nouveau")
		}
		if len(drivers) > 0 {
			out["graphics_drivers"] = drivers
		}
	}

	return out
}
