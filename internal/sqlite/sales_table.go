// Sales collection accessor. Recording and deleting sales carry the status
// side effects on the referenced vehicle: Insert flips it to Sold in the
// same transaction, Delete restores it to In Stock.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lotforge/lotledger/pkg/types"
)

var _ types.SaleTable = (*salesTable)(nil)

type salesTable struct {
	backend *Backend
}

const saleSelect = `SELECT id, vehicle_id, sale_price, sale_date, buyer_info, sale_notes FROM sales`

func scanSale(row interface{ Scan(...any) error }) (*types.Sale, error) {
	var s types.Sale
	var price string
	if err := row.Scan(&s.ID, &s.VehicleID, &price, &s.SaleDate, &s.BuyerInfo, &s.SaleNotes); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed sale_price %q on sale %d", types.ErrStorage, price, s.ID)
	}
	s.SalePrice = p
	return &s, nil
}

func (t *salesTable) Get(id int) (*types.Sale, error) {
	if id < 1 {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	s, err := scanSale(t.backend.db.QueryRow(saleSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale %d: %w", id, err)
	}
	return s, nil
}

// Fetch returns sales in storage order. Recognized filter key: "vehicle_id".
func (t *salesTable) Fetch(filter types.Filter) ([]*types.Sale, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	query := saleSelect
	var args []any
	if v, ok := filter["vehicle_id"]; ok {
		vehicleID, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("%w: vehicle_id filter must be an int", types.ErrValidation)
		}
		query += " WHERE vehicle_id = ?"
		args = append(args, vehicleID)
	}
	query += " ORDER BY id"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching sales: %w", err)
	}
	defer rows.Close()

	var out []*types.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("fetching sales: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching sales: %w", err)
	}
	return out, nil
}

// Insert records a sale. The referenced vehicle must exist and be In Stock;
// the sale row and the status flip to Sold commit in one transaction, then
// both collection files are rewritten. A failure rewriting vehicles.csv
// after sales.csv went out is surfaced loudly as a storage error: the store
// must not silently keep a sold vehicle marked In Stock.
func (t *salesTable) Insert(s *types.Sale) (int, error) {
	if s == nil {
		return 0, types.ErrMissingField
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	var status string
	err := t.backend.db.QueryRow("SELECT status FROM vehicles WHERE id = ?", s.VehicleID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, types.ErrVehicleNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("checking vehicle %d: %w", s.VehicleID, err)
	}
	if status != types.StatusInStock {
		return 0, types.ErrVehicleNotInStock
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "sales")
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(
		`INSERT INTO sales (id, vehicle_id, sale_price, sale_date, buyer_info, sale_notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, s.VehicleID, s.SalePrice.String(), s.SaleDate, s.BuyerInfo, s.SaleNotes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}
	if _, err := tx.Exec("UPDATE vehicles SET status = ? WHERE id = ?", types.StatusSold, s.VehicleID); err != nil {
		return 0, fmt.Errorf("marking vehicle %d sold: %w", s.VehicleID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing sale insert: %v", types.ErrStorage, err)
	}

	if err := t.backend.persistSales(); err != nil {
		return 0, err
	}
	if err := t.backend.persistVehicles(); err != nil {
		return 0, fmt.Errorf("sale %d recorded but vehicle status not persisted, store inconsistent: %w", id, err)
	}

	s.ID = id
	t.backend.log.Info("sale recorded", "id", id, "vehicle_id", s.VehicleID)
	return id, nil
}

// Update merges fields into the stored sale. The vehicle reference is
// immutable; repointing a sale would corrupt the status lifecycle.
func (t *salesTable) Update(id int, fields types.Fields) error {
	if id < 1 {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	exists, err := t.existsLocked(id)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrNotFound
	}

	var sets []string
	var args []any
	for col, val := range fields {
		arg, err := normalizeSaleField(col, val)
		if err != nil {
			return err
		}
		sets = append(sets, col+" = ?")
		args = append(args, arg)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE sales SET " + joinSets(sets) + " WHERE id = ?"
	if _, err := t.backend.db.Exec(query, args...); err != nil {
		return fmt.Errorf("updating sale %d: %w", id, err)
	}
	return t.backend.persistSales()
}

// Delete removes the sale and restores the referenced vehicle to In Stock.
func (t *salesTable) Delete(id int) error {
	if id < 1 {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	var vehicleID int
	err := t.backend.db.QueryRow("SELECT vehicle_id FROM sales WHERE id = ?", id).Scan(&vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting sale %d: %w", id, err)
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sales WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting sale %d: %w", id, err)
	}
	// The vehicle may be gone if the store was hand-edited; restoring zero
	// rows is not an error.
	if _, err := tx.Exec("UPDATE vehicles SET status = ? WHERE id = ?", types.StatusInStock, vehicleID); err != nil {
		return fmt.Errorf("restoring vehicle %d: %w", vehicleID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing sale delete: %v", types.ErrStorage, err)
	}

	if err := t.backend.persistSales(); err != nil {
		return err
	}
	if err := t.backend.persistVehicles(); err != nil {
		return fmt.Errorf("sale %d removed but vehicle status not persisted, store inconsistent: %w", id, err)
	}
	t.backend.log.Info("sale deleted", "id", id, "vehicle_id", vehicleID)
	return nil
}

func (t *salesTable) Exists(id int) (bool, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	return t.existsLocked(id)
}

func (t *salesTable) existsLocked(id int) (bool, error) {
	var one int
	err := t.backend.db.QueryRow("SELECT 1 FROM sales WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking sale %d: %w", id, err)
	}
	return true, nil
}

func normalizeSaleField(col string, val any) (any, error) {
	switch col {
	case "id", "vehicle_id":
		return nil, types.ErrFieldImmutable
	case "sale_date", "buyer_info", "sale_notes":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", types.ErrValidation, col)
		}
		return s, nil
	case "sale_price":
		switch p := val.(type) {
		case decimal.Decimal:
			return p.String(), nil
		case string:
			d, err := types.ParseMoney(p)
			if err != nil {
				return nil, err
			}
			return d.String(), nil
		default:
			return nil, types.ErrInvalidAmount
		}
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownField, col)
	}
}
