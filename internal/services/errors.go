package services

// ErrorKind classifies a domain error for the HTTP facade.
type ErrorKind string

// Domain error kinds, mapped to HTTP statuses by the handlers.
const (
	KindInput        ErrorKind = "input"         // 400
	KindAccessDenied ErrorKind = "access_denied" // 403
	KindNotFound     ErrorKind = "not_found"     // 404
	KindUnavailable  ErrorKind = "unavailable"   // 500, upstream unreachable or failed
	KindUnsupported  ErrorKind = "unsupported"   // 400, operation not valid for this resource
)

// Error is a domain error produced by the resource adapters. Only the
// message crosses the facade boundary, never wrapped stack detail.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func errInput(msg string) *Error        { return &Error{Kind: KindInput, Message: msg} }
func errAccessDenied(msg string) *Error { return &Error{Kind: KindAccessDenied, Message: msg} }
func errNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func errUnavailable(msg string) *Error  { return &Error{Kind: KindUnavailable, Message: msg} }
func errUnsupported(msg string) *Error  { return &Error{Kind: KindUnsupported, Message: msg} }
