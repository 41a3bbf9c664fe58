package types

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of these, so callers can
// branch on the category with errors.Is without matching individual causes.
var (
	// ErrValidation covers bad input: missing fields, non-numeric values,
	// out-of-range years, duplicate VINs. The operation is aborted with no
	// partial write.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity covers cross-entity rule violations: selling a vehicle
	// that is not in stock, or deleting a referenced vehicle under the
	// restrict policy. No state change occurs.
	ErrIntegrity = errors.New("integrity violation")

	// ErrStorage covers unreadable, unwritable, or corrupt collection
	// files. Distinct from bad input so callers can tell "fix your form"
	// from "storage unavailable".
	ErrStorage = errors.New("storage unavailable")
)

// Ledger lifecycle errors.
var (
	ErrLedgerDetached  = errors.New("ledger is detached")
	ErrAlreadyAttached = errors.New("ledger is already attached")
)

// Record operation errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// Validation errors.
var (
	ErrMissingField   = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrInvalidYear    = fmt.Errorf("%w: year must be between 1900 and next year", ErrValidation)
	ErrInvalidAmount  = fmt.Errorf("%w: amount must be a number", ErrValidation)
	ErrInvalidStatus  = fmt.Errorf("%w: unknown vehicle status", ErrValidation)
	ErrDuplicateVIN   = fmt.Errorf("%w: a vehicle with this VIN already exists", ErrValidation)
	ErrUnknownField   = fmt.Errorf("%w: unknown field", ErrValidation)
	ErrFieldImmutable = fmt.Errorf("%w: field cannot be changed", ErrValidation)

	// ErrVehicleNotFound rejects an expense or sale whose vehicle_id does
	// not reference an existing vehicle at creation time.
	ErrVehicleNotFound = fmt.Errorf("%w: referenced vehicle does not exist", ErrValidation)
)

// Integrity errors.
var (
	ErrVehicleNotInStock = fmt.Errorf("%w: vehicle is not in stock", ErrIntegrity)
	ErrVehicleReferenced = fmt.Errorf("%w: vehicle has associated expenses or sales", ErrIntegrity)
)

// Config validation errors.
var (
	ErrDeletePolicyUnknown = errors.New("unknown delete policy")
	ErrBlobDriverUnknown   = errors.New("unknown blob driver")
)
