package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Kind classifies where a failure came from.
type Kind string

const (
	// KindTransport means no response reached us (network down, timeout).
	KindTransport Kind = "transport"
	// KindServer means the server answered with a non-success status.
	KindServer Kind = "server"
	// KindProtocol means a success status carried an unusable payload.
	KindProtocol Kind = "protocol"
	// KindStorage means the local persistent store failed.
	KindStorage Kind = "storage"
	// KindValidation means caller input failed local checks.
	KindValidation Kind = "validation"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Transport wraps a failure to reach the server.
func Transport(message string, err error) *Error {
	return New(KindTransport, 0, message, err)
}

// Server wraps a non-success HTTP response.
func Server(code int, message string) *Error {
	return New(KindServer, code, message, nil)
}

// Protocol reports a success response that is missing required data.
func Protocol(message string) *Error {
	return New(KindProtocol, 0, message, nil)
}

// Storage wraps a local store failure.
func Storage(message string, err error) *Error {
	return New(KindStorage, 0, message, err)
}

// Validation reports rejected caller input.
func Validation(message string) *Error {
	return New(KindValidation, 0, message, nil)
}

// Sentinels usable with errors.Is.
var (
	ErrTransport  = New(KindTransport, 0, "Unable to reach the server", nil)
	ErrServer     = New(KindServer, 0, "Server error", nil)
	ErrProtocol   = New(KindProtocol, 0, "Unexpected server response", nil)
	ErrStorage    = New(KindStorage, 0, "Local storage error", nil)
	ErrValidation = New(KindValidation, 0, "Validation error", nil)
)

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns a message suitable for showing to a user.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}

// IsUnauthorized reports whether err is a server 401, which callers treat as an expired session.
func IsUnauthorized(err error) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == KindServer && appErr.Code == 401
}
