package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// Display is one monitor entry from `xrandr` output.
type Display struct {
	Name      string
	Connected bool
	Primary   bool
	Current   string
	Modes     []string
}

var (
	xrandrHeaderRE = regexp.MustCompile(`^(\S+)\s+(connected|disconnected)(\s+primary)?`)
	xrandrModeRE   = regexp.MustCompile(`^\s*(\d+x\d+)(\S*)\s`)
	xrandrCurRE    = regexp.MustCompile(`(\d+x\d+)\+\d+\+\d+`)
)

// ParseXrandr parses `xrandr` output into one Display per connector.
// No connectors at all (xrandr run under a pure-console/headless
// session) degrades to an empty, non-error slice — that is a valid
// graphics configuration, not a parse failure.
func ParseXrandr(raw string) []Display {
	var displays []Display
	var cur *Display
	for _, line := range strings.Split(raw, "\n") {
		if m := xrandrHeaderRE.FindStringSubmatch(line); m != nil {
			if cur != nil {
				displays = append(displays, *cur)
			}
			cur = &Display{Name: m[1], Connected: m[2] == "connected", Primary: m[3] != ""}
			if cm := xrandrCurRE.FindStringSubmatch(line); cm != nil {
				cur.Current = cm[1]
			}
			continue
		}
		if cur == nil {
			continue
		}
		if m := xrandrModeRE.FindStringSubmatch(line); m != nil {
			cur.Modes = append(cur.Modes, m[1])
		}
	}
	if cur != nil {
		displays = append(displays, *cur)
	}
	return displays
}

// GraphicsCard is one VGA/3D-controller line from `lspci`, reused via
// the pci probe for the GPU-classification path (Optimus/hybrid-GPU
// detection needs the raw description, not just vendor/device IDs).
type GraphicsCard struct {
	Address     string
	Description string
	IsNvidia    bool
	IsIntel     bool
	IsAMD       bool
}

// ClassifyGraphicsCards filters PCI devices down to display
// controllers and tags their vendor family by description substring,
// mirroring the Python original's Optimus/hybrid-GPU heuristic.
func ClassifyGraphicsCards(devices []PCIDevice) []GraphicsCard {
	var cards []GraphicsCard
	for _, d := range devices {
		if !strings.Contains(d.Class, "VGA") && !strings.Contains(d.Class, "3D controller") && !strings.Contains(d.Class, "Display controller") {
			continue
		}
		desc := d.Vendor + " " + d.Device
		cards = append(cards, GraphicsCard{
			Address:     d.Address,
			Description: desc,
			IsNvidia:    strings.Contains(strings.ToUpper(desc), "NVIDIA"),
			IsIntel:     strings.Contains(desc, "Intel"),
			IsAMD:       strings.Contains(strings.ToUpper(desc), "AMD") || strings.Contains(desc, "ATI"),
		})
	}
	return cards
}

func init() {
	register(&Spec{
		Name:     "xrandr",
		Category: "graphics",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"xrandr"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"xrandr"}, Reason: res.Error})
			}
			return Result{Value: ParseXrandr(res.Stdout)}
		},
	})
}
