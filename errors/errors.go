package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the composition pipeline the error occurred
type Phase string

const (
	PhaseWalk    Phase = "walk"    // capability graph traversal
	PhaseBuild   Phase = "build"   // schema construction
	PhaseInit    Phase = "init"    // state allocation and cell binding
	PhaseResolve Phase = "resolve" // record lookup
	PhaseSupply  Phase = "supply"  // explicit record installation
)

// Kind categorizes the error
type Kind string

const (
	KindNotComposed     Kind = "not_composed"     // record type is not part of the host's capability set
	KindNotInitialized  Kind = "not_initialized"  // deferred slot resolved before any record was supplied
	KindAlreadySupplied Kind = "already_supplied" // slot supplied more than once
	KindModeConflict    Kind = "mode_conflict"    // one record type declared under conflicting cell kinds
	KindDiamond         Kind = "diamond"          // record type embeds another composed record type
	KindBadRecord       Kind = "bad_record"       // record type is not usable as slot storage
	KindBadHost         Kind = "bad_host"         // host value or host type is malformed
	KindUnbound         Kind = "unbound"          // capability cell used before the host was initialized
)

// Error is the structured error type used throughout the engine.
//
// Every failure carries the host type and, where known, the record type
// involved, so a composition mistake can be diagnosed from the error alone.
// None of these conditions are transient; callers should not retry.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Host   string
	Record string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("mixin ")
	b.WriteString(string(e.Phase))
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if e.Host != "" {
		b.WriteString(": host ")
		b.WriteString(e.Host)
	}

	if e.Record != "" {
		b.WriteString(": record ")
		b.WriteString(e.Record)
	}

	if len(e.Path) > 0 {
		b.WriteString(" (via ")
		b.WriteString(strings.Join(e.Path, "."))
		b.WriteByte(')')
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

// Host sets the host type name
func (b *Builder) Host(t string) *Builder {
	b.err.Host = t
	return b
}

// Record sets the record type name
func (b *Builder) Record(t string) *Builder {
	b.err.Record = t
	return b
}

// Path sets the embedding path that reached the offending declaration
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
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

// NotComposed creates an error for a record type outside the host's capability set
func NotComposed(phase Phase, host, record string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotComposed,
		Host:   host,
		Record: record,
		Detail: "record type is not composed by this host",
	}
}

// NotInitialized creates an error for resolving a deferred slot that was never supplied
func NotInitialized(host, record string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotInitialized,
		Host:   host,
		Record: record,
		Detail: "record has no default and was never supplied",
	}
}

// AlreadySupplied creates an error for supplying a non-empty slot
func AlreadySupplied(host, record string) *Error {
	return &Error{
		Phase:  PhaseSupply,
		Kind:   KindAlreadySupplied,
		Host:   host,
		Record: record,
		Detail: "record may be supplied at most once",
	}
}

// ModeConflict creates an error for a record type declared under conflicting cell kinds
func ModeConflict(host, record string, path []string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindModeConflict,
		Host:   host,
		Record: record,
		Path:   path,
		Detail: "record type is declared by cells of different kinds",
	}
}

// Diamond creates an error for a record type embedding another composed record type
func Diamond(host, record, embedded string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindDiamond,
		Host:   host,
		Record: record,
		Detail: fmt.Sprintf("embeds composed record type %s; share behavior through capability methods, not record embedding", embedded),
	}
}

// BadRecord creates an error for a record type that cannot back a slot
func BadRecord(host, record, why string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindBadRecord,
		Host:   host,
		Record: record,
		Detail: why,
	}
}

// BadHost creates an error for a malformed host value or host type
func BadHost(phase Phase, host, why string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadHost,
		Host:   host,
		Detail: why,
	}
}

// Unbound creates an error for using a capability cell before host initialization
func Unbound(phase Phase, record string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnbound,
		Record: record,
		Detail: "host was not initialized; call mixin.New on the host first",
	}
}
