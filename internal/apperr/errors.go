// Package apperr defines the error taxonomy shared by all layers. Errors are
// plain values tagged with a Kind; a single translator in the response package
// maps each Kind to an HTTP status and envelope so that no internal detail
// leaks past the system boundary.
package apperr

import "fmt"

// Kind is the machine-readable error category carried in the error envelope's
// "code" field.
type Kind string

const (
	InvalidCredentials  Kind = "INVALID_CREDENTIALS"
	AccountDisabled     Kind = "ACCOUNT_DISABLED"
	TokenExpired        Kind = "TOKEN_EXPIRED"
	TokenInvalid        Kind = "TOKEN_INVALID"
	TokenRevoked        Kind = "TOKEN_REVOKED"
	InsufficientRole    Kind = "INSUFFICIENT_ROLE"
	ResourceNotFound    Kind = "RESOURCE_NOT_FOUND"
	DuplicateResource   Kind = "DUPLICATE_RESOURCE"
	ValidationFailed    Kind = "VALIDATION_FAILED"
	UpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	Internal            Kind = "INTERNAL_ERROR"
)

// Error carries a taxonomy kind, the domain the failure originated in
// (e.g. "auth", "user", "python-proxy") and an optional details map used for
// aggregated validation errors and duplicate-field reporting.
type Error struct {
	Kind    Kind
	Domain  string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Domain, e.Kind, e.Message)
}

// New builds an Error without details.
func New(kind Kind, domain, message string) *Error {
	return &Error{Kind: kind, Domain: domain, Message: message}
}

// WithDetails builds an Error carrying a structured details map.
func WithDetails(kind Kind, domain, message string, details map[string]any) *Error {
	return &Error{Kind: kind, Domain: domain, Message: message, Details: details}
}

// KindOf returns the Kind of err when it is an *Error, Internal otherwise.
// The fallback keeps unexpected errors inside the taxonomy so the boundary
// translator always has something sensible to emit.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Internal
}
