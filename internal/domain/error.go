package domain

import "errors"

// ErrorKind tags a domain failure with its category. The HTTP layer maps
// kinds to status codes in one place; nothing below it knows about HTTP.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuth
	KindAuthorization
	KindNotFound
	KindRouteNotFound
	KindInternal
)

// Error is a domain failure with a client-visible message. Only errors of
// this type reveal their message to clients; anything else collapses to a
// generic response at the boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError unwraps err to a domain *Error, if it is one.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ValidationError reports malformed or missing client input.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// AuthError reports failed credential checks.
func AuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// AuthorizationError reports a request made without a valid login or
// against a resource the caller does not own.
func AuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFoundError reports a missing resource.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// RouteNotFoundError reports a request to an undefined endpoint.
func RouteNotFoundError(message string) *Error {
	return &Error{Kind: KindRouteNotFound, Message: message}
}

// InternalError wraps a programming invariant violation or an unexpected
// store failure. The wrapped cause is for logs, never for clients.
func InternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}
