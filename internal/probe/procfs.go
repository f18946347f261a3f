package probe

import (
	"bufio"
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/infenix/sysdiag/internal/errs"
)

// CPUInfo is the parsed form of /proc/cpuinfo's first processor block.
type CPUInfo struct {
	ModelName string
	VendorID  string
	CPUFamily string
	Model     string
	Stepping  string
	Flags     []string
}

// ParseCPUInfo extracts the fields the spec's hardware analyzer needs
// from raw /proc/cpuinfo text. It fails with ParseError{"model name"}
// when even the first field is absent, since a cpuinfo dump missing
// the model name is not a processor entry at all.
func ParseCPUInfo(raw string) (CPUInfo, error) {
	info := CPUInfo{}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		key, val, ok := splitColon(scanner.Text())
		if !ok {
			continue
		}
		switch key {
		case "model name":
			if info.ModelName == "" {
				info.ModelName = val
			}
		case "vendor_id":
			if info.VendorID == "" {
				info.VendorID = val
			}
		case "cpu family":
			if info.CPUFamily == "" {
				info.CPUFamily = val
			}
		case "model":
			if info.Model == "" {
				info.Model = val
			}
		case "stepping":
			if info.Stepping == "" {
				info.Stepping = val
			}
		case "flags":
			if info.Flags == nil {
				info.Flags = strings.Fields(val)
			}
		}
	}
	if info.ModelName == "" {
		return CPUInfo{}, missingField("model name", raw)
	}
	return info, nil
}

func splitColon(line string) (key, val string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	val = strings.TrimSpace(line[idx+1:])
	return key, val, true
}

// MemInfo is the subset of /proc/meminfo the memory analyzer consumes,
// all values in kB as reported by the kernel.
type MemInfo struct {
	MemTotalKB     uint64
	MemFreeKB      uint64
	MemAvailableKB uint64
	BuffersKB      uint64
	CachedKB       uint64
	SwapTotalKB    uint64
	SwapFreeKB     uint64
	DirtyKB        uint64
	WritebackKB    uint64
}

// ParseMemInfo parses /proc/meminfo. MemTotal is required; every
// other field defaults to zero when absent (older kernels omit
// MemAvailable, for example).
func ParseMemInfo(raw string) (MemInfo, error) {
	fields := map[string]uint64{}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		key, val, ok := splitColon(scanner.Text())
		if !ok {
			continue
		}
		val = strings.TrimSuffix(strings.TrimSpace(val), " kB")
		n, err := strconv.ParseUint(strings.Fields(val)[0], 10, 64)
		if err != nil {
			continue
		}
		fields[key] = n
	}
	total, ok := fields["MemTotal"]
	if !ok {
		return MemInfo{}, missingField("MemTotal", raw)
	}
	return MemInfo{
		MemTotalKB:     total,
		MemFreeKB:      fields["MemFree"],
		MemAvailableKB: fields["MemAvailable"],
		BuffersKB:      fields["Buffers"],
		CachedKB:       fields["Cached"],
		SwapTotalKB:    fields["SwapTotal"],
		SwapFreeKB:     fields["SwapFree"],
		DirtyKB:        fields["Dirty"],
		WritebackKB:    fields["Writeback"],
	}, nil
}

// VMStat is the subset of /proc/vmstat used for page-reclaim pressure.
type VMStat struct {
	PgFault     uint64
	PgMajFault  uint64
	PgScanKSwap uint64
	PgScanDirec uint64
	OOMKill     uint64
}

// ParseVMStat parses /proc/vmstat. All fields default to zero when the
// counter is absent (kernel-version dependent), so this never fails.
func ParseVMStat(raw string) VMStat {
	var v VMStat
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "pgfault":
			v.PgFault = n
		case "pgmajfault":
			v.PgMajFault = n
		case "pgscan_kswapd":
			v.PgScanKSwap = n
		case "pgscan_direct":
			v.PgScanDirec = n
		case "oom_kill":
			v.OOMKill = n
		}
	}
	return v
}

// PressureLine is one "some"/"full" line of a PSI pressure file.
type PressureLine struct {
	Avg10  float64
	Avg60  float64
	Avg300 float64
	Total  uint64
}

// Pressure holds the Some/Full rows of a /proc/pressure/{cpu,memory,io}
// file. Full is the zero value when the kernel omits it (cpu.pressure
// has no "full" line).
type Pressure struct {
	Some PressureLine
	Full PressureLine
}

// ParsePressure parses a /proc/pressure/* file. Missing the "some" line
// entirely means PSI accounting is disabled for this resource; callers
// treat that as ParseError rather than a zero reading.
func ParsePressure(raw string) (PressureLine, PressureLine, error) {
	var some, full PressureLine
	sawSome := false
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		line := parsePressureFields(fields[1:])
		switch fields[0] {
		case "some":
			some = line
			sawSome = true
		case "full":
			full = line
		}
	}
	if !sawSome {
		return PressureLine{}, PressureLine{}, missingField("some", raw)
	}
	return some, full, nil
}

func parsePressureFields(fields []string) PressureLine {
	var l PressureLine
	for _, f := range fields {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "avg10":
			l.Avg10, _ = strconv.ParseFloat(kv[1], 64)
		case "avg60":
			l.Avg60, _ = strconv.ParseFloat(kv[1], 64)
		case "avg300":
			l.Avg300, _ = strconv.ParseFloat(kv[1], 64)
		case "total":
			l.Total, _ = strconv.ParseUint(kv[1], 10, 64)
		}
	}
	return l
}

// LoadAvg is the parsed content of /proc/loadavg.
type LoadAvg struct {
	Load1, Load5, Load15 float64
	RunnableProcs        int
	TotalProcs           int
}

// ParseLoadAvg parses /proc/loadavg's fixed five-field layout.
func ParseLoadAvg(raw string) (LoadAvg, error) {
	fields := strings.Fields(raw)
	if len(fields) < 4 {
		return LoadAvg{}, missingField("loadavg", raw)
	}
	l1, _ := strconv.ParseFloat(fields[0], 64)
	l5, _ := strconv.ParseFloat(fields[1], 64)
	l15, _ := strconv.ParseFloat(fields[2], 64)
	running, total := 0, 0
	if parts := strings.SplitN(fields[3], "/", 2); len(parts) == 2 {
		running, _ = strconv.Atoi(parts[0])
		total, _ = strconv.Atoi(parts[1])
	}
	return LoadAvg{Load1: l1, Load5: l5, Load15: l15, RunnableProcs: running, TotalProcs: total}, nil
}

// ParseBootTime extracts the kernel boot time (seconds since epoch) from
// the text of /proc/stat's "btime" line, used to resolve kernel-relative
// ([SSSSS.mmm]) timestamps in the log pipeline to wall-clock time.
func ParseBootTime(raw string) (int64, error) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "btime" {
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return 0, missingField("btime", raw)
			}
			return v, nil
		}
	}
	return 0, missingField("btime", raw)
}

// CmdlineParams returns the kernel command line split on whitespace,
// as read from /proc/cmdline — used by the kernel-config analyzer to
// cross-check runtime overrides (e.g. mitigations=off) against
// compiled-in CONFIG_* values.
func CmdlineParams(raw string) []string {
	return strings.Fields(raw)
}

func procPath(root, rel string) string {
	return filepath.Join(root, rel)
}

func readRequired(src Source, path string) (string, error) {
	text, ok := src.Sys.ReadFile(path)
	if !ok {
		return "", &errs.FileMissing{Path: path, Reason: "unreadable"}
	}
	return text, nil
}

func init() {
	register(&Spec{
		Name:     "cpuinfo",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "cpuinfo"))
			if err != nil {
				return errResult(err)
			}
			info, err := ParseCPUInfo(raw)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: info}
		},
	})

	register(&Spec{
		Name:     "meminfo",
		Category: "memory",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "meminfo"))
			if err != nil {
				return errResult(err)
			}
			info, err := ParseMemInfo(raw)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: info}
		},
	})

	register(&Spec{
		Name:     "vmstat",
		Category: "memory",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "vmstat"))
			if err != nil {
				return errResult(err)
			}
			return Result{Value: ParseVMStat(raw)}
		},
	})

	register(&Spec{
		Name:     "loadavg",
		Category: "cpu",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "loadavg"))
			if err != nil {
				return errResult(err)
			}
			load, err := ParseLoadAvg(raw)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: load}
		},
	})

	register(&Spec{
		Name:     "pressure_memory",
		Category: "memory",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "pressure/memory"))
			if err != nil {
				return errResult(err)
			}
			some, full, err := ParsePressure(raw)
			if err != nil {
				return errResult(err)
			}
			return Result{Value: Pressure{Some: some, Full: full}}
		},
	})

	register(&Spec{
		Name:     "cmdline",
		Category: "kernel",
		Collect: func(_ context.Context, src Source) Result {
			raw, err := readRequired(src, procPath(src.ProcRoot, "cmdline"))
			if err != nil {
				return errResult(err)
			}
			return Result{Value: CmdlineParams(raw)}
		},
	})
}
