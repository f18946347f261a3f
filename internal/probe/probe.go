// Package probe implements the probe/parser library: the pluggable
// layer that decouples data acquisition (running a utility, reading a
// procfs/sysfs file) from the pure parsers that interpret its output.
//
// Every probe is a (collector, parser) pair: the collector names the
// exact commands/paths it needs and calls into sysaccess.SystemInterface;
// the parser is a pure function from raw text to a typed record and
// performs no I/O of its own. A probe failure is never raised to the
// caller — it is captured as a ParseError/CommandFailed and surfaced
// by the owning analyzer as a "<name>_error" sentinel.
package probe

import (
	"context"

	"github.com/infenix/sysdiag/internal/errs"
	"github.com/infenix/sysdiag/internal/sysaccess"
)

// Source is the runtime context every probe collector function
// receives: the system-access handle plus the procfs/sysfs mount
// roots (overridable for testing).
type Source struct {
	Sys      sysaccess.SystemInterface
	ProcRoot string
	SysRoot  string
}

// DefaultSource returns a Source rooted at the real /proc and /sys.
func DefaultSource(sys sysaccess.SystemInterface) Source {
	return Source{Sys: sys, ProcRoot: "/proc", SysRoot: "/sys"}
}

// Result is the outcome of running one probe: either Value is
// populated, or Err names why the probe could not produce a value.
// The two are mutually exclusive — spec invariant: "never a mixture".
type Result struct {
	Value any
	Err   error
}

// Spec names a single probe: the exact commands/paths it collects
// and the pure function that turns the raw form into Value.
type Spec struct {
	Name     string
	Category string
	Collect  func(ctx context.Context, src Source) Result
}

// Registry maps probe name to its specification, mirroring the
// probe table in the specification's probe/parser library section.
var Registry = map[string]*Spec{}

func register(s *Spec) {
	Registry[s.Name] = s
}

// errResult wraps err into a Result with no Value.
func errResult(err error) Result {
	return Result{Err: err}
}

// missingField builds the standard ParseError for a required field
// that was absent from raw.
func missingField(field, raw string) error {
	return &errs.ParseError{Field: field, Raw: raw}
}
