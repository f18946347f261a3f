// Timestamp parsing for the four log formats stage L1 accepts: RFC3164
// (no year, rolled back against a reference time), ISO 8601,
// "YYYY-MM-DD HH:MM:SS", and kernel boot-relative "[SSSSS.mmm]".
package logpipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var kernelRelativeRE = regexp.MustCompile(`^\[\s*(\d+)\.(\d+)\]`)

const rfc3164Layout = "Jan _2 15:04:05"

// ParseTimestamp tries each of the four accepted formats in turn,
// returning the resolved wall-clock time. now is the reference instant
// used for RFC3164's year inference and boot-relative resolution;
// bootTime is the epoch second /proc/stat reported as "btime" (zero
// value if unavailable, in which case boot-relative lines are
// rejected rather than silently misdated).
func ParseTimestamp(raw string, now time.Time, bootTime time.Time) (time.Time, string, error) {
	raw = strings.TrimSpace(raw)

	if m := kernelRelativeRE.FindStringSubmatch(raw); m != nil {
		if bootTime.IsZero() {
			return time.Time{}, "", fmt.Errorf("boot-relative timestamp %q: boot time unavailable", raw)
		}
		secs, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("boot-relative timestamp %q: %w", raw, err)
		}
		rest := strings.TrimSpace(raw[len(m[0]):])
		return bootTime.Add(time.Duration(secs * float64(time.Second))), rest, nil
	}

	if t, err := time.Parse(time.RFC3339, firstField(raw, 1)); err == nil {
		return t, strings.TrimSpace(raw[len(firstField(raw, 1)):]), nil
	}

	const isoSpace = "2006-01-02 15:04:05"
	if len(raw) >= len(isoSpace) {
		if t, err := time.ParseInLocation(isoSpace, raw[:len(isoSpace)], now.Location()); err == nil {
			return t, strings.TrimSpace(raw[len(isoSpace):]), nil
		}
	}

	if len(raw) >= len(rfc3164Layout) {
		candidate := raw[:len(rfc3164Layout)]
		if t, err := time.Parse(rfc3164Layout, candidate); err == nil {
			resolved := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
			if resolved.Sub(now) > 31*24*time.Hour {
				resolved = resolved.AddDate(-1, 0, 0)
			}
			return resolved, strings.TrimSpace(raw[len(rfc3164Layout):]), nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unrecognized timestamp in %q", raw)
}

// firstField returns the first n whitespace-separated tokens of s,
// rejoined with a single space, used to isolate an ISO-8601 timestamp
// (which may carry a "T" and timezone offset with no internal spaces)
// from the rest of a log line.
func firstField(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) < n {
		return s
	}
	return strings.Join(fields[:n], " ")
}
