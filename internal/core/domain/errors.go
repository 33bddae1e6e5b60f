package domain

import (
	"errors"
	"sort"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Session Errors.

	// ErrUnauthorized indicates the backend rejected the session token.
	// The stored token is cleared when this is returned.
	ErrUnauthorized = errors.New("Unauthorized. Session expired or invalid. Please login again.")

	// ErrNotAuthenticated indicates no session token is stored.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrForbidden indicates the user lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates the backend refused a create because the entity exists.
	ErrConflict = errors.New("conflict")

	// ErrNoActiveEvent indicates an event-scoped operation was requested
	// without an event slug and no active event is set.
	ErrNoActiveEvent = errors.New("no active event selected")

	// ErrOIDCNotConfigured indicates the OIDC provider or client id is missing.
	ErrOIDCNotConfigured = errors.New("OIDC is not configured")

	// Source Errors.

	// ErrSourceNotFound indicates the source id is not in the editable list.
	ErrSourceNotFound = errors.New("source not found")

	// ErrNothingToSave indicates a save produced an empty patch.
	ErrNothingToSave = errors.New("No changes to save")

	// ErrInFlight indicates a save or delete is already running for the source.
	ErrInFlight = errors.New("operation already in progress for source")

	// ErrInvalidField indicates an unknown field name or a value of the wrong type.
	ErrInvalidField = errors.New("invalid source field")
)

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// Has reports whether the field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Empty reports whether there are no errors.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// ValidationError is returned when client-side validation blocks an operation.
type ValidationError struct {
	Fields FieldErrors
}

// Error joins the field messages in field-name order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ValidationError against ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
