package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the object lifecycle the error occurred
type Phase string

const (
	PhaseCreate    Phase = "create"    // factory entry, allocation, tree linking
	PhaseConstruct Phase = "construct" // base-constructor chain
	PhaseDestroy   Phase = "destroy"   // destructor chain
	PhaseCast      Phase = "cast"      // dynamic cast / ancestor lookup
	PhaseDispatch  Phase = "dispatch"  // HAL dispatch-table binding
	PhaseLifecycle Phase = "lifecycle" // engine-state transitions
	PhaseRegistry  Phase = "registry"  // class registration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindOutOfMemory        Kind = "out_of_memory"
	KindConstructionFailed Kind = "construction_failure"
	KindCastFailed         Kind = "cast_failure"
	KindUnresolvedDispatch Kind = "unresolved_dispatch"
	KindInvalidState       Kind = "invalid_state"
	KindNotFound           Kind = "not_found"
	KindAlreadyRegistered  Kind = "already_registered"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Slot   string
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

	if e.Class != "" || e.Slot != "" {
		b.WriteString(": ")
		if e.Class != "" && e.Slot != "" {
			b.WriteString("class ")
			b.WriteString(e.Class)
			b.WriteString(", slot ")
			b.WriteString(e.Slot)
		} else if e.Class != "" {
			b.WriteString("class ")
			b.WriteString(e.Class)
		} else {
			b.WriteString("slot ")
			b.WriteString(e.Slot)
		}
	}

	if e.Detail != "" {
		if e.Class != "" || e.Slot != "" {
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

// Path sets the object path (root-to-leaf class names)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Slot sets the dispatch-slot name
func (b *Builder) Slot(name string) *Builder {
	b.err.Slot = name
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

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// OutOfMemory creates an allocation failure error
func OutOfMemory(class string, size uintptr) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindOutOfMemory,
		Class:  class,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// ConstructionFailed wraps a base-constructor failure with its chain position.
// step is 1-indexed in root-first construction order.
func ConstructionFailed(class string, step int, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstructionFailed,
		Class:  class,
		Detail: fmt.Sprintf("base constructor %d failed", step),
		Cause:  cause,
	}
}

// CastFailed creates a cast failure error. Not generally fatal; DynamicCast
// reports the miss through its boolean result and callers that require the
// ancestor surface this.
func CastFailed(class, target string) *Error {
	return &Error{
		Phase:  PhaseCast,
		Kind:   KindCastFailed,
		Class:  class,
		Detail: fmt.Sprintf("%s is not an ancestor of %s", target, class),
	}
}

// UnresolvedDispatch reports a slot with no matching rule and no default.
// This is a programming defect caught at binding time, not a runtime
// condition to recover from.
func UnresolvedDispatch(slot, index string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnresolvedDispatch,
		Slot:   slot,
		Detail: fmt.Sprintf("no rule matches %s and no default is declared", index),
	}
}

// InvalidState creates a lifecycle-order violation error
func InvalidState(class, detail string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindInvalidState,
		Class:  class,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// AlreadyRegistered creates a duplicate-registration error
func AlreadyRegistered(class, detail string) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindAlreadyRegistered,
		Class:  class,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether err, or any error in its chain, is an *Error with the
// given phase and kind.
func Is(err error, phase Phase, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Phase == phase && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
