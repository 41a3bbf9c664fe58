package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sale is one row of the sales collection. Recording a sale requires the
// referenced vehicle to be in stock and flips it to sold as part of the same
// operation; deleting the sale restores the vehicle to stock. A vehicle has
// at most one active sale at a time, enforced by the in-stock precondition.
type Sale struct {
	ID        int             `json:"id"`
	VehicleID int             `json:"vehicle_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
	SaleDate  string          `json:"sale_date"` // stored verbatim, YYYY-MM-DD expected
	BuyerInfo string          `json:"buyer_info"`
	SaleNotes string          `json:"sale_notes"`
}

// Validate checks that the sale has a vehicle reference and a sale date.
// The in-stock precondition is the backend's job.
func (s *Sale) Validate() error {
	if s.VehicleID < 1 {
		return ErrInvalidID
	}
	if strings.TrimSpace(s.SaleDate) == "" {
		return ErrMissingField
	}
	return nil
}
