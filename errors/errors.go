package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // convention and signature parsing
	PhaseLayout   Phase = "layout"   // layout construction
	PhaseTarget   Phase = "target"   // target description loading
	PhaseDispatch Phase = "dispatch" // architecture dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedArch   Kind = "unsupported_arch"
	KindInvalidConvention Kind = "invalid_convention"
	KindInvalidTarget     Kind = "invalid_target"
	KindInvalidSignature  Kind = "invalid_signature"
	KindInvalidType       Kind = "invalid_type"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Arch   string
	Conv   string
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

	if e.Arch != "" || e.Conv != "" {
		b.WriteString(": ")
		if e.Arch != "" && e.Conv != "" {
			b.WriteString("arch ")
			b.WriteString(e.Arch)
			b.WriteString(", convention ")
			b.WriteString(e.Conv)
		} else if e.Arch != "" {
			b.WriteString("arch ")
			b.WriteString(e.Arch)
		} else {
			b.WriteString("convention ")
			b.WriteString(e.Conv)
		}
	}

	if e.Detail != "" {
		if e.Arch != "" || e.Conv != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Arch sets the architecture identifier
func (b *Builder) Arch(arch string) *Builder {
	b.err.Arch = arch
	return b
}

// Conv sets the calling convention name
func (b *Builder) Conv(conv string) *Builder {
	b.err.Conv = conv
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

// Convenience constructors for common error patterns

// UnsupportedArch creates the dispatcher's unsupported-architecture error.
func UnsupportedArch(arch, conv string) *Error {
	return &Error{
		Phase: PhaseDispatch,
		Kind:  KindUnsupportedArch,
		Arch:  arch,
		Conv:  conv,
	}
}

// InvalidConvention creates a convention parse error naming the bad value.
func InvalidConvention(value string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidConvention,
		Conv:   value,
		Detail: fmt.Sprintf("%q is not a valid calling convention", value),
	}
}
