package domain

import "fmt"

// Error types for consistent error handling across the BFF.
//
// ErrValidation and ErrPrecondition are raised before any backend call is
// made. ErrExternalService wraps backend rejections, whose messages are
// surfaced verbatim to the caller.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates invalid input on a request field.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrPrecondition indicates an action was attempted in a state that forbids
// it (e.g. deleting a term after the 24h window, renewing a cancelled term).
type ErrPrecondition struct {
	Action string
	Reason string
}

func (e *ErrPrecondition) Error() string {
	return fmt.Sprintf("%s not allowed: %s", e.Action, e.Reason)
}

// ErrExternalService indicates a failure in a backend call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrForbidden indicates the caller lacks the capability for the operation.
type ErrForbidden struct {
	Capability string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: missing capability %s", e.Capability)
}

// ErrUnauthorized indicates a missing or invalid capability token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict indicates the operation left or found the backend in a state
// that needs attention (e.g. a renewal whose status flip did not land).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
