package recommend

import (
	"fmt"
	"sort"
)

// Input bundles everything the pipeline needs, already translated
// into this package's own domain types by the engine layer.
type Input struct {
	Hardware   HardwareInfo
	Metrics    Metrics
	KConfig    []KConfigFinding
	Logs       LogSummary
	Thresholds Thresholds
}

var priorityWeight = map[string]int{
	"critical": 4,
	"high":     3,
	"medium":   2,
	"low":      1,
}

var urgencyClosing = map[string]string{
	"immediate":       "Act on this now; the risk is active.",
	"soon":            "Schedule this in the near term before it escalates.",
	"when_convenient": "Apply this at your next maintenance window.",
	"ongoing":         "Keep this as a standing practice.",
}

// Run executes the six-step pipeline: generate, prioritize,
// deduplicate, explain, build implementation guides, and summarize.
func Run(in Input) Result {
	thr := in.Thresholds
	if thr == (Thresholds{}) {
		thr = DefaultThresholds
	}
	profile := DeriveProfile(in.Hardware)

	recs := generate(in, thr, profile)
	recs = prioritize(recs)
	recs = deduplicate(recs)
	recs = explain(recs)

	guides := buildGuides(recs)
	summary := summarize(recs)

	return Result{
		Recommendations: recs,
		Guides:          guides,
		Summary:         summary,
	}
}

// generate runs every generator in isolation: a panicking generator
// is recovered and skipped rather than aborting the whole pipeline,
// per spec's per-generator failure-isolation rule.
func generate(in Input, thr Thresholds, profile HardwareProfile) []Recommendation {
	var all []Recommendation
	runners := []func() []Recommendation{
		func() []Recommendation { return generateHardware(in.Metrics, thr) },
		func() []Recommendation { return generateLogs(in.Logs, thr) },
		func() []Recommendation { return generateKernel(in.KConfig) },
		func() []Recommendation { return generateProfileOverlays(profile) },
		func() []Recommendation { return generateSysctl(profile, in.Hardware) },
		func() []Recommendation { return generateMaintenance() },
	}
	for _, run := range runners {
		all = append(all, safeRun(run)...)
	}
	return all
}

func safeRun(run func() []Recommendation) (out []Recommendation) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return run()
}

// prioritize orders recommendations by priority weight, descending.
func prioritize(recs []Recommendation) []Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityWeight[recs[i].Priority] > priorityWeight[recs[j].Priority]
	})
	return recs
}

// deduplicate collapses recommendations sharing the same
// (component, action, category, priority) key, keeping the first
// (highest-priority, since prioritize already ran) occurrence.
func deduplicate(recs []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(recs))
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		key := r.Component + "|" + r.Action + "|" + r.Category + "|" + r.Priority
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// explain appends the closed-set urgency closing sentence to every
// recommendation's explanation.
func explain(recs []Recommendation) []Recommendation {
	for i := range recs {
		closing, ok := urgencyClosing[recs[i].Urgency]
		if !ok {
			closing = urgencyClosing["when_convenient"]
		}
		recs[i].Explanation = fmt.Sprintf("%s %s", recs[i].Details, closing)
	}
	return recs
}

// buildGuides produces step-by-step implementation guides for the
// top 5 recommendations, with difficulty assigned by component:
// kernel changes are Advanced, other hardware-facing changes are
// Intermediate, everything else is Beginner.
func buildGuides(recs []Recommendation) []ImplementationGuide {
	n := len(recs)
	if n > 5 {
		n = 5
	}
	guides := make([]ImplementationGuide, 0, n)
	for i := 0; i < n; i++ {
		r := recs[i]
		guides = append(guides, ImplementationGuide{
			RecommendationIndex: i,
			Title:               r.Action,
			Steps:               guideSteps(r),
			EstimatedTime:       guideEstimate(r),
			Difficulty:          guideDifficulty(r),
			Prerequisites:       guidePrerequisites(r),
			Risks:               guideRisks(r),
		})
	}
	return guides
}

func guideDifficulty(r Recommendation) string {
	switch r.Component {
	case "kernel":
		return "Advanced"
	case "cpu", "memory", "storage", "network", "graphics":
		return "Intermediate"
	default:
		return "Beginner"
	}
}

func guideEstimate(r Recommendation) string {
	switch guideDifficulty(r) {
	case "Advanced":
		return "30-60 minutes"
	case "Intermediate":
		return "15-30 minutes"
	default:
		return "5-15 minutes"
	}
}

func guidePrerequisites(r Recommendation) []string {
	if guideDifficulty(r) == "Advanced" {
		return []string{"root access", "ability to reboot the system"}
	}
	return []string{"root access"}
}

func guideRisks(r Recommendation) []string {
	switch r.Priority {
	case "critical":
		return []string{"Delaying this change risks data loss or an unplanned outage."}
	default:
		return []string{"Misconfiguration can require reverting the change."}
	}
}

func guideSteps(r Recommendation) []string {
	return []string{
		fmt.Sprintf("Review the current state of %s.", r.Component),
		r.Action + ".",
		"Verify the change took effect and monitor for regressions.",
	}
}

// summarize produces the priority/category distribution counts.
func summarize(recs []Recommendation) map[string]int {
	s := make(map[string]int)
	for _, r := range recs {
		s["priority:"+r.Priority]++
		s["category:"+r.Category]++
	}
	s["total"] = len(recs)
	return s
}
