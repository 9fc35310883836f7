package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // request payload decoding
	PhaseRegistry Phase = "registry" // handle lookup and release
	PhaseDispatch Phase = "dispatch" // method resolution and argument conversion
	PhaseStream   Phase = "stream"   // event and pairing streams
	PhaseNative   Phase = "native"   // the wrapped library call itself
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedRequest Kind = "malformed_request"
	KindHandleNotFound   Kind = "handle_not_found"
	KindUnknownMethod    Kind = "unknown_method"
	KindArgumentError    Kind = "argument_error"
	KindNativeError      Kind = "native_error"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge.
// Every failure crossing the boundary is one of these; the envelope
// carries only the rendered message, so Error() has to stand alone.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Method   string
	Position int // argument position, -1 when not applicable
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	switch {
	case e.Detail != "":
		b.WriteString(e.Detail)
	case e.Cause == nil:
		b.WriteString(string(e.Kind))
	}

	if e.Method != "" && !strings.Contains(e.Detail, e.Method) {
		b.WriteString(" (method ")
		b.WriteString(e.Method)
		b.WriteByte(')')
	}

	if e.Cause != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Cause.Error())
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
			Phase:    phase,
			Kind:     kind,
			Position: -1,
		},
	}
}

// Method sets the dispatched method name
func (b *Builder) Method(name string) *Builder {
	b.err.Method = name
	return b
}

// Position sets the offending argument position
func (b *Builder) Position(i int) *Builder {
	b.err.Position = i
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

// MalformedRequest wraps a JSON decode failure of a request payload.
func MalformedRequest(cause error) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindMalformedRequest,
		Position: -1,
		Detail:   "invalid json",
		Cause:    cause,
	}
}

// HandleNotFound reports a missing registry entry. The kind argument is
// the namespace name ("client", "container", ...) or plain "handle" when
// the namespace is unknown.
func HandleNotFound(kind string) *Error {
	return &Error{
		Phase:    PhaseRegistry,
		Kind:     KindHandleNotFound,
		Position: -1,
		Detail:   kind + " handle not found",
	}
}

// UnknownMethod reports a method name the dispatcher cannot resolve.
func UnknownMethod(method string) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindUnknownMethod,
		Method:   method,
		Position: -1,
		Detail:   "method not found: " + method,
	}
}

// MissingArgument reports a required argument that was not supplied.
func MissingArgument(method string, position int) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindArgumentError,
		Method:   method,
		Position: position,
		Detail:   fmt.Sprintf("missing argument %d for %s", position, method),
	}
}

// Argument reports a failed conversion of the argument at position.
func Argument(method string, position int, cause error) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindArgumentError,
		Method:   method,
		Position: position,
		Detail:   fmt.Sprintf("arg %d", position),
		Cause:    cause,
	}
}

// Native wraps an error reported by the wrapped library. A nil cause
// returns nil so call sites can pass errors through unconditionally.
func Native(cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{
		Phase:    PhaseNative,
		Kind:     KindNativeError,
		Position: -1,
		Cause:    cause,
	}
}
