package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCPUInfo = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 158
model name	: Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz
stepping	: 10
flags		: fpu vme de pse tsc msr pae mce cx8 apic sep mtrr pge mca cmov avx2 rdrand
`

func TestParseCPUInfo(t *testing.T) {
	info, err := ParseCPUInfo(sampleCPUInfo)
	require.NoError(t, err)
	require.Equal(t, "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz", info.ModelName)
	require.Equal(t, "GenuineIntel", info.VendorID)
	require.Contains(t, info.Flags, "avx2")
	require.Contains(t, info.Flags, "rdrand")
}

func TestParseCPUInfo_MissingModelName(t *testing.T) {
	_, err := ParseCPUInfo("vendor_id\t: GenuineIntel\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "model name")
}

const sampleMemInfo = `MemTotal:       16384000 kB
MemFree:         2048000 kB
MemAvailable:    8192000 kB
Buffers:          512000 kB
Cached:          4096000 kB
SwapTotal:       2097148 kB
SwapFree:        2097148 kB
`

func TestParseMemInfo(t *testing.T) {
	info, err := ParseMemInfo(sampleMemInfo)
	require.NoError(t, err)
	require.Equal(t, uint64(16384000), info.MemTotalKB)
	require.Equal(t, uint64(8192000), info.MemAvailableKB)
	require.Equal(t, uint64(2097148), info.SwapTotalKB)
}

func TestParseMemInfo_MissingTotal(t *testing.T) {
	_, err := ParseMemInfo("MemFree: 100 kB\n")
	require.Error(t, err)
}

func TestParseVMStat(t *testing.T) {
	raw := "pgfault 12345\npgmajfault 10\noom_kill 1\n"
	v := ParseVMStat(raw)
	require.Equal(t, uint64(12345), v.PgFault)
	require.Equal(t, uint64(10), v.PgMajFault)
	require.Equal(t, uint64(1), v.OOMKill)
}

func TestParsePressure(t *testing.T) {
	raw := "some avg10=1.50 avg60=2.30 avg300=0.10 total=123456\nfull avg10=0.00 avg60=0.00 avg300=0.00 total=0\n"
	some, full, err := ParsePressure(raw)
	require.NoError(t, err)
	require.Equal(t, 1.50, some.Avg10)
	require.Equal(t, uint64(123456), some.Total)
	require.Equal(t, 0.0, full.Avg10)
}

func TestParsePressure_NoSomeLine(t *testing.T) {
	_, _, err := ParsePressure("full avg10=0.00 avg60=0.00 avg300=0.00 total=0\n")
	require.Error(t, err)
}

func TestParseLoadAvg(t *testing.T) {
	l, err := ParseLoadAvg("0.52 0.58 0.59 2/891 12345\n")
	require.NoError(t, err)
	require.Equal(t, 0.52, l.Load1)
	require.Equal(t, 2, l.RunnableProcs)
	require.Equal(t, 891, l.TotalProcs)
}

func TestParseBootTime(t *testing.T) {
	raw := "cpu  100 200 300\nbtime 1700000000\nprocesses 500\n"
	bt, err := ParseBootTime(raw)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), bt)
}

func TestParseBootTime_Missing(t *testing.T) {
	_, err := ParseBootTime("cpu 1 2 3\n")
	require.Error(t, err)
}

func TestCmdlineParams(t *testing.T) {
	params := CmdlineParams("BOOT_IMAGE=/vmlinuz root=/dev/sda1 ro quiet mitigations=off")
	require.Contains(t, params, "mitigations=off")
	require.Len(t, params, 5)
}
