package logpipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

func TestParseSince(t *testing.T) {
	d, err := ParseSince("30 minutes ago")
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, d)

	_, err = ParseSince("a while ago")
	require.Error(t, err)
}

func TestParse_SyslogFile(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedFile("/var/log/kern.log", "Jan 15 10:00:00 host kernel: [   5.123] usb 1-1: new device\n")
	sys.SeedCommand([]string{"dmesg"}, sysaccess.CommandResult{Success: false})
	sys.SeedCommand([]string{"journalctl", "-o", "json", "--no-pager"}, sysaccess.CommandResult{Success: false})

	src := probe.DefaultSource(sys)
	now := time.Date(2026, time.January, 15, 11, 0, 0, 0, time.UTC)
	entries, err := Parse(context.Background(), src, []string{"kern.log"}, 0, now)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "kernel", entries[0].Facility)
	require.Equal(t, "kern.log", entries[0].Source)
}

func TestParse_SinceFilter(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedFile("/var/log/syslog", "Jan 1 00:00:00 host cron: old event\nJan 15 10:59:00 host cron: recent event\n")

	src := probe.DefaultSource(sys)
	now := time.Date(2026, time.January, 15, 11, 0, 0, 0, time.UTC)
	entries, err := Parse(context.Background(), src, []string{"syslog"}, time.Hour, now)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Message, "recent event")
}

func TestParseJournald(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	sys.SeedCommand([]string{"journalctl", "-o", "json", "--no-pager"}, sysaccess.CommandResult{
		Success: true,
		Stdout:  `{"__REALTIME_TIMESTAMP":"1700000000000000","PRIORITY":"3","MESSAGE":"disk failed"}` + "\n",
	})

	src := probe.DefaultSource(sys)
	entries := parseJournald(context.Background(), src)
	require.Len(t, entries, 1)
	require.Equal(t, SeverityError, entries[0].Severity)
	require.Equal(t, "disk failed", entries[0].Message)
}
