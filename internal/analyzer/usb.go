package analyzer

import (
	"context"
	"strings"

	"github.com/infenix/sysdiag/internal/probe"
)

// realtekProblemProducts are the Realtek WiFi product IDs the original
// analyzer calls out as needing extra firmware/driver work.
var realtekProblemProducts = map[string]bool{
	"8172": true, "8192": true, "8723": true, "8821": true,
}

// USBAnalyzer composes lsusb/lsusb -t into device inventory plus the
// Realtek-WiFi/Broadcom-Bluetooth compatibility heuristics.
type USBAnalyzer struct{}

func (USBAnalyzer) Name() string { return "usb" }

func (USBAnalyzer) Analyze(ctx context.Context, src probe.Source) Result {
	out := Result{}

	res := src.Sys.RunCommand(ctx, []string{"lsusb"})
	if !res.Success {
		out[errKey("lsusb")] = res.Error
		return out
	}
	devices, err := probe.ParseLsusb(res.Stdout)
	if err != nil {
		out[errKey("lsusb")] = err.Error()
		return out
	}
	out["devices"] = devices
	out["device_count"] = len(devices)

	treeRes := src.Sys.RunCommand(ctx, []string{"lsusb", "-t"})
	if treeRes.Success {
		out["tree"] = probe.ParseUSBTree(treeRes.Stdout)
	} else {
		out[errKey("lsusb_tree")] = treeRes.Error
	}

	kernelRes := src.Sys.RunCommand(ctx, []string{"uname", "-r"})
	if kernelRes.Success {
		out["kernel_version"] = strings.TrimSpace(kernelRes.Stdout)
	}

	var issues []CompatibilityIssue
	for _, d := range devices {
		if d.VendorID == "0bda" && realtekProblemProducts[d.ProductID] {
			issues = append(issues, CompatibilityIssue{
				Type:           "realtek_wifi",
				Description:    d.VendorID + ":" + d.ProductID + " " + d.Description,
				Recommendation: "May need firmware installation or driver update",
			})
		}
		if d.VendorID == "0a5c" {
			issues = append(issues, CompatibilityIssue{
				Type:           "broadcom_bluetooth",
				Description:    d.VendorID + ":" + d.ProductID + " " + d.Description,
				Recommendation: "May need firmware installation from linux-firmware package",
			})
		}
	}
	if len(issues) > 0 {
		out["compatibility_issues"] = issues
	}

	return out
}
