package types

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleValidate(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	valid := func() Vehicle {
		return Vehicle{
			Make:   "Honda",
			Model:  "Civic",
			Year:   2019,
			VIN:    "2HGFC2F59KH512345",
			Status: StatusInStock,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Vehicle)
		wantErr error
	}{
		{name: "valid vehicle", mutate: func(v *Vehicle) {}},
		{
			name:    "missing make",
			mutate:  func(v *Vehicle) { v.Make = "" },
			wantErr: ErrMissingField,
		},
		{
			name:    "missing model",
			mutate:  func(v *Vehicle) { v.Model = "" },
			wantErr: ErrMissingField,
		},
		{
			name:    "missing vin",
			mutate:  func(v *Vehicle) { v.VIN = "" },
			wantErr: ErrMissingField,
		},
		{
			name:    "year before 1900",
			mutate:  func(v *Vehicle) { v.Year = 1899 },
			wantErr: ErrInvalidYear,
		},
		{
			name:   "year next model year allowed",
			mutate: func(v *Vehicle) { v.Year = 2027 },
		},
		{
			name:    "year too far ahead",
			mutate:  func(v *Vehicle) { v.Year = 2028 },
			wantErr: ErrInvalidYear,
		},
		{
			name:    "unrecognized status",
			mutate:  func(v *Vehicle) { v.Status = "Pending" },
			wantErr: ErrInvalidStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid()
			tt.mutate(&v)
			err := v.Validate(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain integer", in: "12500", want: "12500"},
		{name: "two decimal places", in: "450.75", want: "450.75"},
		{name: "negative allowed", in: "-20", want: "-20"},
		{name: "empty is zero", in: "", want: "0"},
		{name: "garbage", in: "twelve", wantErr: true},
		{name: "trailing text", in: "12.5x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	e := Expense{VehicleID: 1, Type: "Repairs", Amount: decimal.NewFromInt(100)}
	assert.NoError(t, e.Validate())

	e.VehicleID = 0
	assert.ErrorIs(t, e.Validate(), ErrValidation)

	e = Expense{VehicleID: 1, Type: ""}
	assert.ErrorIs(t, e.Validate(), ErrMissingField)
}

func TestSaleValidate(t *testing.T) {
	s := Sale{VehicleID: 1, SaleDate: "2026-06-20", SalePrice: decimal.NewFromInt(14500)}
	assert.NoError(t, s.Validate())

	s.SaleDate = ""
	assert.ErrorIs(t, s.Validate(), ErrMissingField)

	s = Sale{VehicleID: 0, SaleDate: "2026-06-20"}
	assert.ErrorIs(t, s.Validate(), ErrValidation)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusInStock))
	assert.True(t, ValidStatus(StatusSold))
	assert.False(t, ValidStatus("in stock"))
	assert.False(t, ValidStatus(""))
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrDuplicateVIN, ErrValidation))
	assert.True(t, errors.Is(ErrVehicleNotInStock, ErrIntegrity))
	assert.False(t, errors.Is(ErrVehicleNotInStock, ErrValidation))
}
