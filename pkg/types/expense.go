package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Expense is one row of the expenses collection: money spent on a vehicle
// (repairs, detailing, transport, fees). Expenses reference a vehicle that
// must exist at creation time; no integrity is enforced afterward.
type Expense struct {
	ID          int             `json:"id"`
	VehicleID   int             `json:"vehicle_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // stored verbatim
	Description string          `json:"description"`
}

// Validate checks that the expense has a vehicle reference and a type.
// Whether the vehicle exists is the backend's job.
func (e *Expense) Validate() error {
	if e.VehicleID < 1 {
		return ErrInvalidID
	}
	if strings.TrimSpace(e.Type) == "" {
		return ErrMissingField
	}
	return nil
}
