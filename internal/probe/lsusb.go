package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// USBDevice is one line of flat `lsusb` output.
type USBDevice struct {
	Bus         string
	Device      string
	VendorID    string
	ProductID   string
	Description string
}

var lsusbLineRE = regexp.MustCompile(`^Bus (\d+) Device (\d+): ID ([0-9a-f]{4}):([0-9a-f]{4})\s*(.*)$`)

// ParseLsusb parses flat `lsusb` output, one device per line.
func ParseLsusb(raw string) ([]USBDevice, error) {
	var devices []USBDevice
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := lsusbLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[5])
		if desc == "" {
			desc = "Unknown Device"
		}
		devices = append(devices, USBDevice{
			Bus: m[1], Device: m[2], VendorID: m[3], ProductID: m[4], Description: desc,
		})
	}
	if devices == nil {
		return nil, &errs.ParseError{Field: "ID", Raw: raw}
	}
	return devices, nil
}

// USBTreeNode is one node of `lsusb -t`'s device hierarchy.
type USBTreeNode struct {
	Port     string
	Device   string
	Interface string
	Class    string
	Driver   string
	Depth    int
	Children []*USBTreeNode
}

var usbTreeLineRE = regexp.MustCompile(`Port (\d+): Dev (\d+), If (\d+), Class=([^,]+), Driver=([^,]+),`)

// ParseUSBTree reconstructs the `lsusb -t` forest from its
// indentation. It keeps an explicit stack of ancestor pointers keyed
// by depth (four spaces per level) rather than slicing a path list,
// so a line that skips depths (a truncated -t dump) degrades to
// attaching at the deepest still-valid ancestor instead of panicking.
func ParseUSBTree(raw string) []*USBTreeNode {
	var roots []*USBTreeNode
	stack := []*USBTreeNode{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := (len(line) - len(strings.TrimLeft(line, " "))) / 4

		m := usbTreeLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		node := &USBTreeNode{
			Port: m[1], Device: m[2], Interface: m[3], Class: strings.TrimSpace(m[4]),
			Driver: strings.TrimSpace(m[5]), Depth: depth,
		}

		for len(stack) > depth {
			stack = stack[:len(stack)-1]
		}
		if depth > len(stack) {
			depth = len(stack)
			node.Depth = depth
		}

		if depth == 0 || len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack[:depth], node)
	}
	return roots
}

func init() {
	register(&Spec{
		Name:     "lsusb",
		Category: "usb",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lsusb"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lsusb"}, Reason: res.Error})
			}
			devs, err := ParseLsusb(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: devs}
		},
	})

	register(&Spec{
		Name:     "lsusb_tree",
		Category: "usb",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lsusb", "-t"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lsusb", "-t"}, Reason: res.Error})
			}
			return Result{Value: ParseUSBTree(res.Stdout)}
		},
	})
}
