// Package errs defines the closed error taxonomy used across sysdiag.
//
// Every probe, analyzer, and engine boundary maps its failures onto one
// of these kinds rather than letting an ad-hoc error cross the
// boundary. None of these types ever panics across a package boundary;
// callers inspect With errors.As.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// CommandFailed reports a subprocess that exited non-zero or could not
// be spawned at all (ENOENT, EACCES, ...).
type CommandFailed struct {
	Argv   []string
	Reason string
}

func (e *CommandFailed) Error() string {
	return fmt.Sprintf("command failed: %v: %s", e.Argv, e.Reason)
}

// CommandTimeout reports a subprocess that exceeded the 30s probe
// timeout and was terminated.
type CommandTimeout struct {
	Argv []string
}

func (e *CommandTimeout) Error() string {
	return fmt.Sprintf("command timed out after 30s: %v", e.Argv)
}

// FileMissing reports an I/O failure reading a file (including
// permission denied and partial reads).
type FileMissing struct {
	Path   string
	Reason string
}

func (e *FileMissing) Error() string {
	return fmt.Sprintf("file unavailable: %s: %s", e.Path, e.Reason)
}

// ParseError reports a parser precondition violation: a required field
// was absent from the raw text.
type ParseError struct {
	Field string
	Raw   string
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 80 {
		raw = raw[:80] + "..."
	}
	return fmt.Sprintf("parse error: missing field %q in %q", e.Field, raw)
}

// InvalidDiagnostic reports a nil or malformed Diagnostic passed to an
// engine operation that requires one.
type InvalidDiagnostic struct {
	Reason string
}

func (e *InvalidDiagnostic) Error() string {
	return fmt.Sprintf("invalid diagnostic: %s", e.Reason)
}

// InvalidArgument reports a failed options validation at an engine
// façade entry point. This is the only error kind allowed to escape
// the engine façade as a Go error.
type InvalidArgument struct {
	Name  string
	Value string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument %s=%q", e.Name, e.Value)
}

// Partial indicates a request was cancelled mid-run; the caller
// should treat the accompanying result as incomplete-but-usable.
type Partial struct {
	Reason string
}

func (e *Partial) Error() string {
	return fmt.Sprintf("partial result: %s", e.Reason)
}

// Wrap adds stack context to an internal error without changing its
// identity for errors.As purposes.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
