// Stage L2: Classify. Assigns each entry a category by keyword match
// against the message, falling back to facility, then attaches the
// component the category maps to one-to-one and an urgency bucket
// derived from severity.
package logpipeline

import "strings"

// ClassifiedEntry wraps a LogEntry with its derived category,
// component and urgency.
type ClassifiedEntry struct {
	LogEntry
	Category string
	Component string
	Urgency  string
}

var categoryKeywords = map[string][]string{
	"kernel":      {"kernel", "panic", "oops", "bug:", "call trace"},
	"storage":     {"ata", "scsi", "i/o error", "blk_update_request", "smart", "filesystem", "ext4", "xfs", "disk"},
	"memory":      {"out of memory", "oom", "page allocation failure", "memory"},
	"cpu":         {"cpu", "thermal", "throttl", "machine check"},
	"network":     {"eth", "wlan", "link is down", "link is up", "network", "tcp", "nic"},
	"security":    {"selinux", "apparmor", "audit", "denied"},
	"auth":        {"authentication", "sshd", "sudo", "login", "pam"},
	"application": {},
}

// categoryOrder fixes keyword-match precedence so overlapping
// keywords (e.g. a storage message also mentioning "memory") resolve
// deterministically to the more specific category.
var categoryOrder = []string{"kernel", "storage", "memory", "cpu", "network", "security", "auth"}

var categoryComponent = map[string]string{
	"storage": "storage",
	"memory":  "memory",
	"cpu":     "cpu",
	"network": "network",
	"kernel":  "kernel",
}

var facilityCategory = map[string]string{
	"kernel": "kernel",
	"auth":   "auth",
	"mail":   "application",
	"daemon": "application",
	"cron":   "application",
	"syslog": "application",
}

func categorize(e LogEntry) string {
	lower := strings.ToLower(e.Message)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			// A keyword counts only where it starts a word, so "eth"
			// does not match inside "something".
			for off := 0; off < len(lower); {
				i := strings.Index(lower[off:], kw)
				if i < 0 {
					break
				}
				i += off
				if i == 0 || !(lower[i-1] >= 'a' && lower[i-1] <= 'z' || lower[i-1] >= '0' && lower[i-1] <= '9') {
					return cat
				}
				off = i + 1
			}
		}
	}
	if cat, ok := facilityCategory[e.Facility]; ok {
		return cat
	}
	return "application"
}

func urgencyFor(s Severity) string {
	switch {
	case s.AtMost(SeverityCritical):
		return "critical"
	case s.AtMost(SeverityError):
		return "high"
	case s.AtMost(SeverityWarning):
		return "medium"
	default:
		return "low"
	}
}

// Classify runs stage L2 over the parsed entries.
func Classify(entries []LogEntry) []ClassifiedEntry {
	out := make([]ClassifiedEntry, 0, len(entries))
	for _, e := range entries {
		cat := categorize(e)
		out = append(out, ClassifiedEntry{
			LogEntry:  e,
			Category:  cat,
			Component: categoryComponent[cat],
			Urgency:   urgencyFor(e.Severity),
		})
	}
	return out
}
