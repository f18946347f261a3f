package logpipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	entries := []LogEntry{
		{Timestamp: time.Now(), Facility: "kernel", Severity: SeverityError, Message: "blk_update_request: I/O error, dev sda", Source: "kern.log"},
		{Timestamp: time.Now(), Facility: "auth", Severity: SeverityInfo, Message: "sshd: accepted password for root", Source: "auth.log"},
		{Timestamp: time.Now(), Facility: "daemon", Severity: SeverityCritical, Message: "something odd happened", Source: "daemon.log"},
	}

	out := Classify(entries)
	require.Len(t, out, 3)
	require.Equal(t, "storage", out[0].Category)
	require.Equal(t, "storage", out[0].Component)
	require.Equal(t, "auth", out[1].Category)
	require.Equal(t, "application", out[2].Category)
	require.Equal(t, "critical", out[2].Urgency)
	require.Equal(t, "low", out[1].Urgency)
}
