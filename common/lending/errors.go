package lending

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the lending system can surface.
// Kinds travel over the wire unchanged; the gateway maps them to HTTP
// status codes without altering semantics.
type ErrorKind string

const (
	// KindValidation means malformed input caught before any ledger call.
	// Field-scoped and always recoverable locally.
	KindValidation ErrorKind = "validation"

	// KindNotFound means a referenced book or member id does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindConflict means the requested transition violates the
	// availability/ownership invariant (already borrowed, already
	// available, wrong-member return). Never retried automatically.
	KindConflict ErrorKind = "conflict"

	// KindBusy means the client-side concurrency guard rejected the
	// request because a mutation for the same book is still in flight.
	// Never reaches the ledger.
	KindBusy ErrorKind = "busy"

	// KindTransport means the RPC itself could not complete.
	KindTransport ErrorKind = "transport"
)

// Error is the uniform error shape of the lending domain.
// Fields is populated only for validation errors.
type Error struct {
	Kind    ErrorKind         `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NotFound builds a not_found error
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Busy builds a busy error
func Busy(format string, args ...any) *Error {
	return &Error{Kind: KindBusy, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a failed RPC into a transport error
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error()}
}

// Validation builds a field-scoped validation error
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "invalid input",
		Fields:  fields,
	}
}

// KindOf extracts the error kind, or KindTransport for errors that did not
// originate in the lending domain (the generic failure bucket).
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindTransport
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
