package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle lifecycle states. A vehicle enters the lot "In Stock" and flips to
// "Sold" when a sale references it; deleting that sale flips it back.
const (
	StatusInStock = "In Stock"
	StatusSold    = "Sold"
)

// validStatuses is the set of recognized vehicle status values.
var validStatuses = map[string]bool{
	StatusInStock: true,
	StatusSold:    true,
}

// ValidStatus reports whether s is a recognized vehicle status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Earliest model year accepted on intake.
const MinYear = 1900

// Vehicle is one row of the vehicles collection.
type Vehicle struct {
	ID             int             `json:"id"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	VIN            string          `json:"vin"`
	Price          decimal.Decimal `json:"price"` // acquisition price
	Date           string          `json:"date"`  // acquisition date, stored verbatim
	Notes          string          `json:"notes"`
	Status         string          `json:"status"`
	BillOfSaleFile string          `json:"bill_of_sale_filename"` // opaque blob key, may be empty
}

// Validate checks the intake rules: make, model, and VIN present, year in
// [MinYear, now.Year()+1], status recognized (empty defaults to In Stock at
// insert). VIN uniqueness is the backend's job; it needs the full collection.
func (v *Vehicle) Validate(now time.Time) error {
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" || strings.TrimSpace(v.VIN) == "" {
		return ErrMissingField
	}
	if v.Year < MinYear || v.Year > now.Year()+1 {
		return ErrInvalidYear
	}
	if v.Status != "" && !validStatuses[v.Status] {
		return ErrInvalidStatus
	}
	return nil
}

// InStock reports whether the vehicle is available for sale.
func (v *Vehicle) InStock() bool { return v.Status == StatusInStock }

// ParseMoney parses a decimal money value from its stored text form. An
// empty value reads as zero. Returns ErrInvalidAmount (a validation error)
// on malformed input.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
