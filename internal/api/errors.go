package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for responses that need no extra payload.
// Callers branch with errors.Is.
var (
	// ErrAuthExpired is any 401. The client fires its auth-expired hook
	// before returning this, so by the time a caller sees it the session
	// is already torn down.
	ErrAuthExpired = errors.New("session expired")

	// ErrForbidden is a 403: the account lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is a 404: the record vanished between list render and
	// action. Callers should refresh their list.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries the per-field messages from a 400 response with a
// structured errors array. It belongs to the open form, not to list state.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ConflictError is a 409: the operation is blocked by server-side
// referential integrity (e.g. deleting a customer with active journeys).
// The record stays in the list.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NetworkError wraps a transport failure (DNS, connection reset, non-JSON
// body). The last-good list data stays visible; the UI offers a retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is any other non-2xx response with a plain message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}
