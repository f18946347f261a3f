package logpipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_RFC3164RollsBackYear(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	ts, rest, err := ParseTimestamp("Dec 31 23:59:59 host sshd[1]: accepted", now, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2025, ts.Year())
	require.Equal(t, time.December, ts.Month())
	require.Contains(t, rest, "accepted")
}

func TestParseTimestamp_ISOSpace(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	ts, rest, err := ParseTimestamp("2026-01-15 10:23:45 kernel: something happened", now, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 10, ts.Hour())
	require.Contains(t, rest, "something happened")
}

func TestParseTimestamp_KernelBootRelative(t *testing.T) {
	boot := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	ts, rest, err := ParseTimestamp("[   12.345] usb 1-1: new device", time.Now(), boot)
	require.NoError(t, err)
	require.WithinDuration(t, boot.Add(12345*time.Millisecond), ts, time.Microsecond)
	require.Contains(t, rest, "usb 1-1")
}

func TestParseTimestamp_KernelBootRelative_NoBootTime(t *testing.T) {
	_, _, err := ParseTimestamp("[   12.345] usb 1-1: new device", time.Now(), time.Time{})
	require.Error(t, err)
}

func TestParseTimestamp_Unrecognized(t *testing.T) {
	_, _, err := ParseTimestamp("not a timestamp at all", time.Now(), time.Time{})
	require.Error(t, err)
}
