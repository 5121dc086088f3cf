package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in a run the error occurred
type Phase string

const (
	PhaseParse     Phase = "parse"     // matrix text parsing
	PhaseValidate  Phase = "validate"  // coordinator input validation
	PhaseTopology  Phase = "topology"  // mesh/process-group agreement
	PhaseTransport Phase = "transport" // lane send/receive
	PhaseCompute   Phase = "compute"   // systolic iteration loop
	PhaseConfig    Phase = "config"    // command line and runtime config
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindTopologyMismatch Kind = "topology_mismatch"
	KindAborted          Kind = "aborted"
	KindTypeMismatch     Kind = "type_mismatch"
	KindExhausted        Kind = "exhausted"
	KindInvalidOption    Kind = "invalid_option"
	KindIO               Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path, e.g. the matrix name and row
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// InputValidation reports input the coordinator refuses to distribute.
func InputValidation(detail string, args ...any) *Error {
	return New(PhaseValidate, KindInvalidInput).Detail(detail, args...).Build()
}

// TopologyMismatch reports a process group whose size differs from the mesh.
func TopologyMismatch(expected, actual int) *Error {
	return New(PhaseTopology, KindTopologyMismatch).
		Value(actual).
		Detail("mesh needs %d processes, process group has %d", expected, actual).
		Build()
}

// Aborted wraps the cause that terminated the whole process group.
func Aborted(cause error) *Error {
	return New(PhaseTransport, KindAborted).
		Detail("process group aborted").
		Cause(cause).
		Build()
}

// Transport reports a malformed exchange on a lane.
func Transport(kind Kind, detail string, args ...any) *Error {
	return New(PhaseTransport, kind).Detail(detail, args...).Build()
}
