// Vehicles collection accessor: intake validation, VIN uniqueness, status
// lifecycle, and the configured delete policy live here.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotforge/lotledger/pkg/types"
)

var _ types.VehicleTable = (*vehiclesTable)(nil)

type vehiclesTable struct {
	backend *Backend
}

const vehicleSelect = `SELECT id, make, model, year, vin, price, date, notes, status, bill_of_sale_filename FROM vehicles`

// scanVehicle hydrates one row into a Vehicle, parsing the stored money
// text.
func scanVehicle(row interface{ Scan(...any) error }) (*types.Vehicle, error) {
	var v types.Vehicle
	var price string
	if err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.VIN, &price, &v.Date, &v.Notes, &v.Status, &v.BillOfSaleFile); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed price %q on vehicle %d", types.ErrStorage, price, v.ID)
	}
	v.Price = p
	return &v, nil
}

// Get returns the vehicle with the given ID.
func (t *vehiclesTable) Get(id int) (*types.Vehicle, error) {
	if id < 1 {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	v, err := scanVehicle(t.backend.db.QueryRow(vehicleSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting vehicle %d: %w", id, err)
	}
	return v, nil
}

// Fetch returns vehicles in storage order. Recognized filter keys: "status"
// (exact match) and "search" (case-insensitive substring over make, model,
// year, and VIN, mirroring the inventory page filter).
func (t *vehiclesTable) Fetch(filter types.Filter) ([]*types.Vehicle, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	query := vehicleSelect
	var conditions []string
	var args []any

	if v, ok := filter["status"]; ok {
		status, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: status filter must be a string", types.ErrValidation)
		}
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if v, ok := filter["search"]; ok {
		search, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: search filter must be a string", types.ErrValidation)
		}
		conditions = append(conditions,
			"instr(lower(make || ' ' || model || ' ' || CAST(year AS TEXT) || ' ' || vin), lower(?)) > 0")
		args = append(args, search)
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY id"

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching vehicles: %w", err)
	}
	defer rows.Close()

	var out []*types.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("fetching vehicles: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching vehicles: %w", err)
	}
	return out, nil
}

// Insert validates the vehicle, rejects duplicate VINs, assigns the next ID,
// and appends the record. An empty status defaults to In Stock.
func (t *vehiclesTable) Insert(v *types.Vehicle) (int, error) {
	if v == nil {
		return 0, types.ErrMissingField
	}
	if err := v.Validate(time.Now()); err != nil {
		return 0, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	dup, err := t.vinExistsLocked(v.VIN, 0)
	if err != nil {
		return 0, err
	}
	if dup {
		return 0, types.ErrDuplicateVIN
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "vehicles")
	if err != nil {
		return 0, err
	}
	status := v.Status
	if status == "" {
		status = types.StatusInStock
	}
	_, err = tx.Exec(
		`INSERT INTO vehicles (id, make, model, year, vin, price, date, notes, status, bill_of_sale_filename)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, v.Make, v.Model, v.Year, v.VIN, v.Price.String(), v.Date, v.Notes, status, v.BillOfSaleFile,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting vehicle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing vehicle insert: %v", types.ErrStorage, err)
	}

	if err := t.backend.persistVehicles(); err != nil {
		return 0, err
	}

	v.ID = id
	v.Status = status
	t.backend.log.Info("vehicle added", "id", id, "vin", v.VIN)
	return id, nil
}

// Update merges the given fields into the stored record and rewrites the
// collection. Columns absent from fields keep their stored values.
func (t *vehiclesTable) Update(id int, fields types.Fields) error {
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
		arg, err := normalizeVehicleField(col, val)
		if err != nil {
			return err
		}
		if col == "vin" {
			dup, err := t.vinExistsLocked(arg.(string), id)
			if err != nil {
				return err
			}
			if dup {
				return types.ErrDuplicateVIN
			}
		}
		sets = append(sets, col+" = ?")
		args = append(args, arg)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE vehicles SET " + joinSets(sets) + " WHERE id = ?"
	if _, err := t.backend.db.Exec(query, args...); err != nil {
		return fmt.Errorf("updating vehicle %d: %w", id, err)
	}
	return t.backend.persistVehicles()
}

// Delete removes the vehicle under the configured policy. Cascade removes
// referencing expenses and sales first and reports them; restrict refuses
// while any reference exists.
func (t *vehiclesTable) Delete(id int) (types.CascadeResult, error) {
	var result types.CascadeResult
	if id < 1 {
		return result, types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	exists, err := t.existsLocked(id)
	if err != nil {
		return result, err
	}
	if !exists {
		return result, types.ErrNotFound
	}

	expenseIDs, err := t.backend.refIDs("expenses", id)
	if err != nil {
		return result, err
	}
	saleIDs, err := t.backend.refIDs("sales", id)
	if err != nil {
		return result, err
	}

	if t.backend.config.EffectiveDeletePolicy() == types.DeleteRestrict {
		if len(expenseIDs) > 0 || len(saleIDs) > 0 {
			return result, types.ErrVehicleReferenced
		}
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return result, fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM expenses WHERE vehicle_id = ?", id); err != nil {
		return result, fmt.Errorf("cascading vehicle %d expenses: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM sales WHERE vehicle_id = ?", id); err != nil {
		return result, fmt.Errorf("cascading vehicle %d sales: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM vehicles WHERE id = ?", id); err != nil {
		return result, fmt.Errorf("deleting vehicle %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("%w: committing vehicle delete: %v", types.ErrStorage, err)
	}

	if err := t.backend.persistVehicles(); err != nil {
		return result, err
	}
	if len(expenseIDs) > 0 {
		if err := t.backend.persistExpenses(); err != nil {
			return result, err
		}
	}
	if len(saleIDs) > 0 {
		if err := t.backend.persistSales(); err != nil {
			return result, err
		}
	}

	result.ExpenseIDs = expenseIDs
	result.SaleIDs = saleIDs
	t.backend.log.Info("vehicle deleted", "id", id,
		"cascade_expenses", len(expenseIDs), "cascade_sales", len(saleIDs))
	return result, nil
}

// Exists reports whether a vehicle with the given ID exists.
func (t *vehiclesTable) Exists(id int) (bool, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	return t.existsLocked(id)
}

// VINExists reports whether any vehicle carries the VIN, case-insensitively.
func (t *vehiclesTable) VINExists(vin string) (bool, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	return t.vinExistsLocked(vin, 0)
}

func (t *vehiclesTable) existsLocked(id int) (bool, error) {
	var one int
	err := t.backend.db.QueryRow("SELECT 1 FROM vehicles WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking vehicle %d: %w", id, err)
	}
	return true, nil
}

// vinExistsLocked checks VIN uniqueness, optionally excluding one vehicle id
// (used by Update so a record can keep its own VIN).
func (t *vehiclesTable) vinExistsLocked(vin string, excludeID int) (bool, error) {
	var one int
	err := t.backend.db.QueryRow(
		"SELECT 1 FROM vehicles WHERE vin = ? COLLATE NOCASE AND id != ? LIMIT 1",
		vin, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking vin %q: %w", vin, err)
	}
	return true, nil
}

// refIDs returns the ids in table whose vehicle_id references the vehicle,
// in storage order.
func (b *Backend) refIDs(table string, vehicleID int) ([]int, error) {
	rows, err := b.db.Query("SELECT id FROM "+table+" WHERE vehicle_id = ? ORDER BY id", vehicleID)
	if err != nil {
		return nil, fmt.Errorf("listing %s for vehicle %d: %w", table, vehicleID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// normalizeVehicleField validates one update column and converts its value
// to a SQL argument. The ID is immutable; unknown columns are rejected.
func normalizeVehicleField(col string, val any) (any, error) {
	switch col {
	case "id":
		return nil, types.ErrFieldImmutable
	case "make", "model", "vin", "date", "notes", "bill_of_sale_filename":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", types.ErrValidation, col)
		}
		return s, nil
	case "status":
		s, ok := val.(string)
		if !ok || !types.ValidStatus(s) {
			return nil, types.ErrInvalidStatus
		}
		return s, nil
	case "year":
		y, ok := val.(int)
		if !ok {
			if s, sok := val.(string); sok {
				parsed, err := strconv.Atoi(s)
				if err != nil {
					return nil, types.ErrInvalidYear
				}
				y = parsed
			} else {
				return nil, types.ErrInvalidYear
			}
		}
		if y < types.MinYear || y > time.Now().Year()+1 {
			return nil, types.ErrInvalidYear
		}
		return y, nil
	case "price":
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

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}
