package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/probe"
)

// CompatibilityIssue is one flagged hardware-compatibility concern,
// grounded on the Python originals' compatibility-issue dicts (type,
// description/device, recommendation).
type CompatibilityIssue struct {
	Type           string
	Description    string
	Recommendation string
}

var vgaControllerRE = regexp.MustCompile(`VGA compatible controller`)

// PCIAnalyzer composes lspci -mm and lspci -k into device inventory plus
// the Optimus/Broadcom-wireless compatibility heuristics; lspci -vvv is
// not run.
type PCIAnalyzer struct{}

func (PCIAnalyzer) Name() string { return "pci" }

func (PCIAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	mmRes := src.Sys.RunCommand(ctx, []string{"lspci", "-mm"})
	if !mmRes.Success {
		out[errKey("lspci_mm")] = mmRes.Error
	} else if devices, err := probe.ParseLspciMM(mmRes.Stdout); err != nil {
		out[errKey("lspci_mm")] = err.Error()
	} else {
		out["devices"] = devices
		out["device_count"] = len(devices)
	}

	kRes := src.Sys.RunCommand(ctx, []string{"lspci", "-k"})
	if !kRes.Success {
		out[errKey("lspci_k")] = kRes.Error
		return out
	}
	details := probe.ParseLspciVerbose(kRes.Stdout)
	out["driver_details"] = details
	if missing := probe.DevicesWithoutDriver(details); len(missing) > 0 {
		out["devices_without_driver"] = missing
	}

	var issues []CompatibilityIssue
	if strings.Contains(kRes.Stdout, "NVIDIA") && strings.Contains(kRes.Stdout, "Intel") && strings.Contains(kRes.Stdout, "VGA") {
		if len(vgaControllerRE.FindAllString(kRes.Stdout, -1)) > 1 {
			issues = append(issues, CompatibilityIssue{
				Type:           "optimus_system",
				Description:    "Multiple GPUs detected (possibly Optimus)",
				Recommendation: "Consider installing nvidia-prime or bumblebee for GPU switching",
			})
		}
	}
	if strings.Contains(kRes.Stdout, "Broadcom") && strings.Contains(kRes.Stdout, "Network controller") {
		if !strings.Contains(kRes.Stdout, "wl") && !strings.Contains(kRes.Stdout, "b43") {
			issues = append(issues, CompatibilityIssue{
				Type:           "broadcom_wireless",
				Description:    "Broadcom wireless card without proper driver",
				Recommendation: "Install broadcom-wl or b43 driver",
			})
		}
	}
	if len(issues) > 0 {
		out["compatibility_issues"] = issues
	}

	return out
}
