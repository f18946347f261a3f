// Package analyzer implements the subsystem analyzers: the layer that
// turns the probe package's raw parsed records into the normalized,
// heterogeneous attribute maps the recommendation engine consumes.
//
// Each analyzer owns exactly one hardware subsystem, reads only from
// internal/probe, and never calls another analyzer. A field that a
// probe could not produce is surfaced as "<name>_error" in the same
// map rather than aborting the whole analysis — grounded on the
// Python originals' per-section try/except around each probe call.
package analyzer

import (
	"context"

	"github.com/infenix/sysdiag/internal/probe"
)

// Result is the normalized output of one analyzer run: a flat map of
// attribute name to value, exactly as the original hardware analyzers
// return a dict of mixed scalar/list/nested values.
type Result map[string]any

// errKey is the sentinel suffix used for a probe that failed; the
// caller (the recommendation engine) treats its presence as "degraded,
// not absent" per the spec's partial-result invariant.
func errKey(probeName string) string {
	return probeName + "_error"
}

// setOrErr runs fn and stores either its value under key or its error
// under errKey(key) into out, never both.
func setOrErr[T any](out Result, key string, fn func() (T, error)) {
	v, err := fn()
	if err != nil {
		out[errKey(key)] = err.Error()
		return
	}
	out[key] = v
}

// Analyzer is implemented by every subsystem analyzer.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, src probe.Source) Result
}
