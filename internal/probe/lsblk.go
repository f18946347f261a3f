package probe

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// BlockDevice is one node of lsblk's device tree (disk or partition).
type BlockDevice struct {
	Name       string        `json:"name"`
	Size       string        `json:"size"`
	Type       string        `json:"type"`
	MountPoint string        `json:"mountpoint"`
	FSType     string        `json:"fstype"`
	Model      string        `json:"model"`
	Serial     string        `json:"serial"`
	Vendor     string        `json:"vendor"`
	Rota       string        `json:"rota"`
	Tran       string        `json:"tran"`
	Children   []BlockDevice `json:"children"`
}

type lsblkDoc struct {
	BlockDevices []BlockDevice `json:"blockdevices"`
}

// ParseLsblkJSON parses `lsblk -J -o NAME,SIZE,TYPE,MOUNTPOINT,FSTYPE,
// MODEL,SERIAL,VENDOR,ROTA,TRAN` output. Malformed JSON is a
// ParseError, not a panic — util-linux versions vary in which columns
// they actually populate, never in whether the document parses.
func ParseLsblkJSON(raw string) ([]BlockDevice, error) {
	var doc lsblkDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &errs.ParseError{Field: "blockdevices", Raw: raw}
	}
	return doc.BlockDevices, nil
}

// IsRotational reports whether rota == "1"; an empty/unknown value is
// treated as non-rotational only when Tran indicates nvme, since nvme
// never populates ROTA.
func (b BlockDevice) IsRotational() bool {
	if b.Rota != "" {
		return b.Rota == "1"
	}
	return b.Tran != "nvme"
}

// DFEntry is one row of `df -h` or `df -T` output.
type DFEntry struct {
	Filesystem  string
	Type        string
	Size        string
	Used        string
	Available   string
	UsePercent  int
	MountPoint  string
}

// ParseDFHuman parses `df -h` (no Type column).
func ParseDFHuman(raw string) []DFEntry {
	return parseDF(raw, false)
}

// ParseDFTypes parses `df -T` (Type column present after Filesystem).
func ParseDFTypes(raw string) []DFEntry {
	return parseDF(raw, true)
}

func parseDF(raw string, withType bool) []DFEntry {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return nil
	}
	var out []DFEntry
	minFields := 6
	if withType {
		minFields = 7
	}
	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) < minFields {
			continue
		}
		e := DFEntry{Filesystem: parts[0]}
		i := 1
		if withType {
			e.Type = parts[1]
			i = 2
		}
		e.Size = parts[i]
		e.Used = parts[i+1]
		e.Available = parts[i+2]
		e.UsePercent = atoiPercent(parts[i+3])
		e.MountPoint = strings.Join(parts[i+4:], " ")
		out = append(out, e)
	}
	return out
}

func atoiPercent(s string) int {
	s = strings.TrimSuffix(s, "%")
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func init() {
	register(&Spec{
		Name:     "lsblk",
		Category: "storage",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"lsblk", "-J", "-o",
				"NAME,SIZE,TYPE,MOUNTPOINT,FSTYPE,MODEL,SERIAL,VENDOR,ROTA,TRAN"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"lsblk"}, Reason: res.Error})
			}
			devs, err := ParseLsblkJSON(res.Stdout)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: devs}
		},
	})

	register(&Spec{
		Name:     "df_h",
		Category: "storage",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"df", "-h"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"df", "-h"}, Reason: res.Error})
			}
			return Result{Value: ParseDFHuman(res.Stdout)}
		},
	})

	register(&Spec{
		Name:     "df_types",
		Category: "storage",
		Collect: func(ctx context.Context, src Source) Result {
			res := src.Sys.RunCommand(ctx, []string{"df", "-T"})
			if !res.Success {
				return errResult(&errs.CommandFailed{Argv: []string{"df", "-T"}, Reason: res.Error})
			}
			return Result{Value: ParseDFTypes(res.Stdout)}
		},
	})
}
