package engine

import "strings"

var intentKeywords = []struct {
	Intent   string
	Keywords []string
}{
	{"performance", []string{"slow", "performance", "latency", "throughput", "bottleneck", "lag"}},
	{"logs", []string{"log", "dmesg", "journal", "syslog", "error message", "crash"}},
	{"kernel", []string{"kernel", "config", "sysctl", "module", "kconfig"}},
	{"hardware", []string{"cpu", "memory", "ram", "disk", "storage", "gpu", "graphics", "hardware", "device", "usb", "pci"}},
	{"diagnostic", []string{"diagnose", "diagnostic", "health", "check", "status", "wrong"}},
}

var severityKeywords = []string{"critical", "high", "medium", "low", "warning", "error"}

var componentKeywords = []string{"cpu", "memory", "disk", "network", "gpu", "graphics", "storage", "kernel"}

var timeframeKeywords = []struct {
	Phrase    string
	Canonical string
}{
	{"last hour", "last_hour"},
	{"last 24", "last_day"},
	{"last day", "last_day"},
	{"last week", "last_week"},
	{"yesterday", "yesterday"},
	{"since boot", "this_boot"},
	{"this boot", "this_boot"},
	{"today", "today"},
	{"recent", "recent"},
}

// InterpretQuery classifies free-form English into one of spec's
// closed-set intents and extracts component/timeframe/severity slots
// by keyword match, grounded on infenix's CLI query-routing logic
// (a fixed keyword table rather than an NLP model, matching the
// original's rule-based classifier).
func InterpretQuery(query string) QueryInterpretation {
	lower := strings.ToLower(query)

	qi := QueryInterpretation{Intent: "general"}
	for _, k := range intentKeywords {
		for _, kw := range k.Keywords {
			if strings.Contains(lower, kw) {
				qi.Intent = k.Intent
				break
			}
		}
		if qi.Intent != "general" {
			break
		}
	}

	for _, c := range componentKeywords {
		if strings.Contains(lower, c) {
			qi.Component = c
			break
		}
	}

	for _, k := range timeframeKeywords {
		if strings.Contains(lower, k.Phrase) {
			qi.Timeframe = k.Canonical
			break
		}
	}

	for _, s := range severityKeywords {
		if strings.Contains(lower, s) {
			qi.Severity = s
			break
		}
	}

	return qi
}
