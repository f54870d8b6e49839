package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/splink"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSession   Phase = "session"   // session lookup
	PhaseParse     Phase = "parse"     // string to link
	PhaseSerialize Phase = "serialize" // link to string
	PhaseConvert   Phase = "convert"   // link to typed entity and back
	PhaseOwnership Phase = "ownership" // reference counting
	PhaseNative    Phase = "native"    // native library bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindPrecondition Kind = "precondition"
	KindNoSession    Kind = "no_session"
	KindInvalidURI   Kind = "invalid_uri"
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindNullHandle   Kind = "null_handle"
	KindReleased     Kind = "released"
	KindKindMismatch Kind = "kind_mismatch"
	KindNotFound     Kind = "not_found"
	KindLeak         Kind = "leak"
)

// Sentinels for errors.Is. They match on Kind regardless of Phase.
var (
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrNoSession    = &Error{Kind: KindNoSession}
	ErrInvalidURI   = &Error{Kind: KindInvalidURI}
	ErrReleased     = &Error{Kind: KindReleased}
	ErrLeak         = &Error{Kind: KindLeak}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Handle splink.Handle
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %#x)", uintptr(e.Handle))
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

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// Op sets the native operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Handle sets the handle involved
func (b *Builder) Handle(h splink.Handle) *Builder {
	b.err.Handle = h
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

// Convenience constructors for common error patterns

// Precondition creates a precondition violation. Callers panic with it.
func Precondition(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPrecondition,
		Detail: detail,
	}
}

// NoSession creates an error for an operation that needs an active session
func NoSession(op string) *Error {
	return &Error{
		Phase:  PhaseSession,
		Kind:   KindNoSession,
		Op:     op,
		Detail: "no active session",
	}
}

// InvalidURI creates an error for a string the native parser cannot accept
func InvalidURI(uri string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidURI,
		Op:     "link_create_from_string",
		Detail: fmt.Sprintf("failed to get link from URI %q", uri),
		Value:  uri,
		Cause:  cause,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// NullHandle creates an error for a null handle where a resource is required
func NullHandle(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullHandle,
		Detail: fmt.Sprintf("%s handle is null", what),
	}
}

// Released creates a use-after-release error
func Released(kind splink.Kind, h splink.Handle) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindReleased,
		Handle: h,
		Detail: fmt.Sprintf("%s already released", kind),
	}
}

// KindMismatch creates an error for a handle used as the wrong resource kind
func KindMismatch(op string, h splink.Handle, want, got splink.Kind) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindKindMismatch,
		Op:     op,
		Handle: h,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// NotFound creates an error for a handle the native library does not know
func NotFound(op string, h splink.Handle) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindNotFound,
		Op:     op,
		Handle: h,
		Detail: "unknown handle",
	}
}

// Leaked creates an error for a handle still referenced at shutdown
func Leaked(kind splink.Kind, h splink.Handle, refs int, desc string) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindLeak,
		Handle: h,
		Value:  refs,
		Detail: fmt.Sprintf("%s %s still holds %d reference(s)", kind, desc, refs),
	}
}
