// Package domainerrors defines the closed set of error codes the workflow core
// returns. Services and aggregates attach a code to every negative outcome so
// the HTTP boundary can translate without inspecting error text.
//
// The taxonomy distinguishes expected negative outcomes (not found, validation)
// from caller/state bugs (invariant violations, missing user context). The
// latter map to 5xx because they indicate upstream misuse, not bad input.
package domainerrors

import "net/http"

// Code identifies a class of domain error.
type Code string

const (
	// CodeNotFound: operation, submission, or document does not exist.
	CodeNotFound Code = "not_found"
	// CodeBadRequest: malformed input rejected before business validation.
	CodeBadRequest Code = "bad_request"
	// CodeValidation: one or more business rules rejected the request.
	CodeValidation Code = "validation_failed"
	// CodeInvariant: double-create or re-disclosure; caller/state bug.
	CodeInvariant Code = "invariant_violation"
	// CodeContextInvalid: acting user identity missing from the request context.
	CodeContextInvalid Code = "context_invalid"
	// CodeUnauthorized: missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeUnavailable: downstream collaborator temporarily unreachable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal: anything else; details stay out of responses.
	CodeInternal Code = "internal_error"
)

// DomainError carries a code plus a human-readable message.
type DomainError struct {
	Code    Code
	Message string
}

func (e DomainError) Error() string {
	return e.Message
}

// New builds a DomainError with the given code and message.
func New(code Code, message string) DomainError {
	return DomainError{Code: code, Message: message}
}

// Is reports whether err is a DomainError with the given code.
func Is(err error, code Code) bool {
	de, ok := err.(DomainError)
	return ok && de.Code == code
}

// CodeOf extracts the code from an error, defaulting to CodeInternal for
// anything that is not a DomainError.
func CodeOf(err error) Code {
	if de, ok := err.(DomainError); ok {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its transport status. Invariant violations and
// invalid user context surface as 500 on purpose: they are server-side bugs.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeInvariant, CodeContextInvalid, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
