// Stage L1: Parse. Reads each configured log source through its own
// dedicated collector+parser pair, exactly the way internal/probe pairs
// a collector function with a pure parser, and normalizes every line
// into a LogEntry regardless of source format.
package logpipeline

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/infenix/sysdiag/internal/errs"
	"github.com/infenix/sysdiag/internal/probe"
)

// Severity is the syslog-canonical priority name, ordered emergency
// (most severe) through debug (least).
type Severity string

const (
	SeverityEmergency Severity = "emergency"
	SeverityAlert     Severity = "alert"
	SeverityCritical  Severity = "critical"
	SeverityError     Severity = "error"
	SeverityWarning   Severity = "warning"
	SeverityNotice    Severity = "notice"
	SeverityInfo      Severity = "info"
	SeverityDebug     Severity = "debug"
)

var severityRank = map[Severity]int{
	SeverityEmergency: 0,
	SeverityAlert:     1,
	SeverityCritical:  2,
	SeverityError:     3,
	SeverityWarning:   4,
	SeverityNotice:    5,
	SeverityInfo:      6,
	SeverityDebug:     7,
}

// AtMost reports whether s is at least as severe as (i.e. ranks <=) other.
func (s Severity) AtMost(other Severity) bool {
	return severityRank[s] <= severityRank[other]
}

// LogEntry is one normalized, immutable log line — spec's LogEntry
// type, common to every source format.
type LogEntry struct {
	Timestamp time.Time
	Facility  string
	Severity  Severity
	Message   string
	Source    string
}

// sourceFacility maps a source name to the facility attached when the
// line itself carries none — the convention every syslog-rotated file
// follows (the file's own name names its facility).
var sourceFacility = map[string]string{
	"syslog":    "syslog",
	"kern.log":  "kernel",
	"auth.log":  "auth",
	"mail.log":  "mail",
	"daemon.log": "daemon",
	"cron.log":  "cron",
	"dmesg":     "kernel",
	"journald":  "daemon",
}

var sourceFiles = map[string]string{
	"syslog":     "/var/log/syslog",
	"kern.log":   "/var/log/kern.log",
	"auth.log":   "/var/log/auth.log",
	"mail.log":   "/var/log/mail.log",
	"daemon.log": "/var/log/daemon.log",
	"cron.log":   "/var/log/cron.log",
}

var sinceRE = regexp.MustCompile(`^(\d+)\s+(second|minute|hour|day)s?\s+ago$`)

// ParseSince converts the "<N> (second|minute|hour|day) ago" filter
// syntax into a duration.
func ParseSince(spec string) (time.Duration, error) {
	m := sinceRE.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return 0, &errs.ParseError{Field: "since", Raw: spec}
	}
	n, _ := strconv.Atoi(m[1])
	var unit time.Duration
	switch m[2] {
	case "second":
		unit = time.Second
	case "minute":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	}
	return time.Duration(n) * unit, nil
}

func severityFromKeywords(msg string) Severity {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "panic"), strings.Contains(lower, "oops"):
		return SeverityEmergency
	case strings.Contains(lower, "error"), strings.Contains(lower, "failed"):
		return SeverityError
	case strings.Contains(lower, "warn"):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func severityFromPriority(p int) Severity {
	switch p {
	case 0:
		return SeverityEmergency
	case 1:
		return SeverityAlert
	case 2:
		return SeverityCritical
	case 3:
		return SeverityError
	case 4:
		return SeverityWarning
	case 5:
		return SeverityNotice
	case 6:
		return SeverityInfo
	default:
		return SeverityDebug
	}
}

// Parse runs stage L1 over the requested sources, pruning anything
// older than now-since (since == 0 disables the filter).
func Parse(ctx context.Context, src probe.Source, sources []string, since time.Duration, now time.Time) ([]LogEntry, error) {
	var bootTime time.Time
	if raw, ok := src.Sys.ReadFile(src.ProcRoot + "/stat"); ok {
		if secs, err := probe.ParseBootTime(raw); err == nil {
			bootTime = time.Unix(secs, 0)
		}
	}

	var all []LogEntry
	for _, s := range sources {
		var entries []LogEntry
		switch s {
		case "dmesg":
			entries = parseDmesg(ctx, src, bootTime)
		case "journald":
			entries = parseJournald(ctx, src)
		default:
			if path, ok := sourceFiles[s]; ok {
				entries = parseSyslogFile(src, s, path, now)
			}
		}
		all = append(all, entries...)
	}

	if since > 0 {
		cutoff := now.Add(-since)
		filtered := all[:0]
		for _, e := range all {
			if !e.Timestamp.Before(cutoff) {
				filtered = append(filtered, e)
			}
		}
		all = filtered
	}

	return all, nil
}

func parseDmesg(ctx context.Context, src probe.Source, bootTime time.Time) []LogEntry {
	res := src.Sys.RunCommand(ctx, []string{"dmesg"})
	if !res.Success {
		return nil
	}
	var entries []LogEntry
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ts, rest, err := ParseTimestamp(line, time.Now(), bootTime)
		if err != nil {
			ts, rest = bootTime, line
		}
		entries = append(entries, LogEntry{
			Timestamp: ts,
			Facility:  sourceFacility["dmesg"],
			Severity:  severityFromKeywords(rest),
			Message:   rest,
			Source:    "dmesg",
		})
	}
	return entries
}

type journalEntry struct {
	RealtimeTimestamp string `json:"__REALTIME_TIMESTAMP"`
	Priority          string `json:"PRIORITY"`
	SyslogFacility    string `json:"SYSLOG_FACILITY"`
	Message           string `json:"MESSAGE"`
}

func parseJournald(ctx context.Context, src probe.Source) []LogEntry {
	res := src.Sys.RunCommand(ctx, []string{"journalctl", "-o", "json", "--no-pager"})
	if !res.Success {
		return nil
	}
	var entries []LogEntry
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var je journalEntry
		if err := json.Unmarshal([]byte(line), &je); err != nil {
			continue
		}
		var ts time.Time
		if usec, err := strconv.ParseInt(je.RealtimeTimestamp, 10, 64); err == nil {
			ts = time.Unix(0, usec*int64(time.Microsecond))
		}
		severity := SeverityInfo
		if pri, err := strconv.Atoi(je.Priority); err == nil {
			severity = severityFromPriority(pri)
		}
		facility := je.SyslogFacility
		if facility == "" {
			facility = sourceFacility["journald"]
		}
		entries = append(entries, LogEntry{
			Timestamp: ts,
			Facility:  facility,
			Severity:  severity,
			Message:   je.Message,
			Source:    "journald",
		})
	}
	return entries
}

func parseSyslogFile(src probe.Source, source, path string, now time.Time) []LogEntry {
	raw, ok := src.Sys.ReadFile(path)
	if !ok {
		return nil
	}
	var entries []LogEntry
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ts, rest, err := ParseTimestamp(line, now, time.Time{})
		if err != nil {
			continue
		}
		entries = append(entries, LogEntry{
			Timestamp: ts,
			Facility:  sourceFacility[source],
			Severity:  severityFromKeywords(rest),
			Message:   rest,
			Source:    source,
		})
	}
	return entries
}
