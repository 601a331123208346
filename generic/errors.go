/*
errors.go - Centralized error types for the hours engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these with context; the API maps them to HTTP status.

ERROR CATEGORIES:
  1. Programmer errors - Missing or unknown contract profile (fail loudly)
  2. Capture errors - Duplicate punches, complete days, retried requests
  3. Lookup errors - Unknown employee
  4. Input errors - Malformed periods or punch kinds

Expected data variability (missing punches, incomplete days, out-of-order
punches) is NOT an error. The classifier and the policy engine return flags
for those instead.

USAGE:
    if errors.Is(err, generic.ErrDuplicatePunch) {
        var conflict *generic.PunchConflictError
        errors.As(err, &conflict)
    }

SEE ALSO:
  - hours/contract.go: Returns profile errors
  - punch/recorder.go: Returns capture errors
  - api/handlers.go: Maps errors to HTTP status
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingProfile is returned when hours are evaluated without a
	// contract profile. The engine never guesses a contract type because the
	// result changes what an employee is owed.
	ErrMissingProfile = errors.New("missing contract profile")

	// ErrUnknownContractType is returned for contract types outside clt/pj.
	ErrUnknownContractType = errors.New("unknown contract type")

	// ErrUnknownPaymentType is returned for payment types outside hourly/fixed.
	ErrUnknownPaymentType = errors.New("unknown payment type")

	// ErrUnknownPunchKind is returned for punch kinds outside the four slots.
	ErrUnknownPunchKind = errors.New("unknown punch kind")

	// ErrDuplicatePunch is returned when a kind is already recorded for the day.
	ErrDuplicatePunch = errors.New("punch kind already recorded for day")

	// ErrDayComplete is returned when all four punches exist for the day.
	ErrDayComplete = errors.New("all punches already recorded for day")

	// ErrDuplicateIdempotencyKey is returned when a punch with the same
	// idempotency key already exists. Expected for terminal retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PunchConflictError identifies the slot that is already taken.
type PunchConflictError struct {
	EmployeeID EmployeeID
	Date       TimePoint
	Kind       string
}

func (e *PunchConflictError) Error() string {
	return fmt.Sprintf("%s already recorded for %s on %s", e.Kind, e.EmployeeID, e.Date)
}

func (e *PunchConflictError) Unwrap() error {
	return ErrDuplicatePunch
}

// ProfileError describes why a contract profile could not be resolved.
type ProfileError struct {
	ContractType string
	PaymentType  string
	Err          error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("%v (contract_type=%q, payment_type=%q)", e.Err, e.ContractType, e.PaymentType)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingProfile) ||
		errors.Is(err, ErrUnknownContractType) ||
		errors.Is(err, ErrUnknownPaymentType) ||
		errors.Is(err, ErrUnknownPunchKind) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsConflict returns true if the request clashes with already recorded data.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePunch) ||
		errors.Is(err, ErrDayComplete) ||
		errors.Is(err, ErrDuplicateIdempotencyKey)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
