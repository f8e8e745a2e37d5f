// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer
// maps them to status codes and the uniform result envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a brigade or report was not found.
	KindNotFound
	// KindValidation indicates malformed or missing input, caught before any write.
	KindValidation
	// KindConflict indicates a concurrent modification (version mismatch).
	KindConflict
	// KindConstraint indicates the operation would break a domain invariant.
	KindConstraint
	// KindInvalidState indicates an unknown brigade status was requested.
	KindInvalidState
	// KindForbidden indicates the action is not allowed for the user.
	KindForbidden
	// KindUnauthorized indicates authentication is required or failed.
	KindUnauthorized
	// KindStore indicates the underlying document store failed.
	KindStore
	// KindCompensation indicates a saga rollback failed after a partial write.
	KindCompensation
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

var kindCodes = map[Kind]string{
	KindUnknown:      "unknown_error",
	KindNotFound:     "not_found",
	KindValidation:   "validation_error",
	KindConflict:     "conflict",
	KindConstraint:   "constraint_error",
	KindInvalidState: "invalid_state",
	KindForbidden:    "forbidden",
	KindUnauthorized: "unauthorized",
	KindStore:        "store_error",
	KindCompensation: "compensation_failure",
	KindInternal:     "internal_error",
}

// String returns the stable machine code of the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindUnknown]
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindConflict, KindConstraint:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindStore:
		return http.StatusServiceUnavailable
	case KindCompensation, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details and returns the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Constraint creates an invariant violation error.
func Constraint(message string) *Error {
	return New(KindConstraint, message)
}

// InvalidState creates an invalid state error.
func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Store wraps a document store failure.
func Store(message string, err error) *Error {
	return Wrap(KindStore, message, err)
}

// Compensation wraps the original saga error together with the rollback error.
func Compensation(message string, original, rollback error) *Error {
	return Wrap(KindCompensation, message, errors.Join(original, rollback))
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if no *Error is in the chain.
func GetKind(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
