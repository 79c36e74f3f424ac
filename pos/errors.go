/*
errors.go - Error taxonomy for the sales engine

ERROR CATEGORIES:
  1. Validation - malformed candidate sale (client error, never retried)
  2. Payment - cash received below the computed total (client error)
  3. Authorization - non-admin attempting an admin-only operation
  4. Storage - backing store failure (server error, not retried here)

USAGE:
  Structured errors unwrap to their sentinel, so callers can test either way:

    if errors.Is(err, pos.ErrInsufficientPayment) { ... }

    var payErr *pos.InsufficientPaymentError
    if errors.As(err, &payErr) { shortfall := payErr.Shortfall }
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed candidate sales.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientPayment is returned when cash received is below the total.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrUnauthorized is returned when the caller's role does not allow the operation.
	ErrUnauthorized = errors.New("not authorized")

	// ErrStorage is returned when the backing store fails.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is returned by stores when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned by stores when a unique key already exists.
	ErrDuplicate = errors.New("duplicate record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientPaymentError carries the shortfall.
type InsufficientPaymentError struct {
	Total        Money
	CashReceived Money
	Shortfall    Money
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %s, received %s, shortfall %s",
		e.Total, e.CashReceived, e.Shortfall)
}

func (e *InsufficientPaymentError) Unwrap() error { return ErrInsufficientPayment }

// AuthorizationError records who tried to do what.
type AuthorizationError struct {
	Actor  string
	Role   Role
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s (role %q) may not %s", e.Actor, e.Role, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrUnauthorized }

// StorageError wraps a backing store failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Is lets errors.Is match both ErrStorage and the underlying cause.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrDuplicate)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
