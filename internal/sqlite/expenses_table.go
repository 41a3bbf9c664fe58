// Expenses collection accessor. Expenses require their vehicle to exist at
// creation time; afterwards the reference is not policed, matching the
// original workflow.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lotforge/lotledger/pkg/types"
)

var _ types.ExpenseTable = (*expensesTable)(nil)

type expensesTable struct {
	backend *Backend
}

const expenseSelect = `SELECT id, vehicle_id, type, amount, date, description FROM expenses`

func scanExpense(row interface{ Scan(...any) error }) (*types.Expense, error) {
	var e types.Expense
	var amount string
	if err := row.Scan(&e.ID, &e.VehicleID, &e.Type, &amount, &e.Date, &e.Description); err != nil {
		return nil, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed amount %q on expense %d", types.ErrStorage, amount, e.ID)
	}
	e.Amount = a
	return &e, nil
}

func (t *expensesTable) Get(id int) (*types.Expense, error) {
	if id < 1 {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	e, err := scanExpense(t.backend.db.QueryRow(expenseSelect+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting expense %d: %w", id, err)
	}
	return e, nil
}

// Fetch returns expenses in storage order. Recognized filter keys:
// "vehicle_id" (exact) and "type" (case-insensitive substring).
func (t *expensesTable) Fetch(filter types.Filter) ([]*types.Expense, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	query := expenseSelect
	var conditions []string
	var args []any

	if v, ok := filter["vehicle_id"]; ok {
		vehicleID, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("%w: vehicle_id filter must be an int", types.ErrValidation)
		}
		conditions = append(conditions, "vehicle_id = ?")
		args = append(args, vehicleID)
	}
	if v, ok := filter["type"]; ok {
		typ, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: type filter must be a string", types.ErrValidation)
		}
		conditions = append(conditions, "instr(lower(type), lower(?)) > 0")
		args = append(args, typ)
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
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}
	defer rows.Close()

	var out []*types.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("fetching expenses: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}
	return out, nil
}

// Insert validates the expense, requires the referenced vehicle to exist,
// assigns the next ID, and appends the record.
func (t *expensesTable) Insert(e *types.Expense) (int, error) {
	if e == nil {
		return 0, types.ErrMissingField
	}
	if err := e.Validate(); err != nil {
		return 0, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	exists, err := (&vehiclesTable{backend: t.backend}).existsLocked(e.VehicleID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, types.ErrVehicleNotFound
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "expenses")
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(
		`INSERT INTO expenses (id, vehicle_id, type, amount, date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.VehicleID, e.Type, e.Amount.String(), e.Date, e.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing expense insert: %v", types.ErrStorage, err)
	}

	if err := t.backend.persistExpenses(); err != nil {
		return 0, err
	}

	e.ID = id
	t.backend.log.Info("expense added", "id", id, "vehicle_id", e.VehicleID, "type", e.Type)
	return id, nil
}

// Update merges fields into the stored expense. The vehicle reference is
// immutable once recorded.
func (t *expensesTable) Update(id int, fields types.Fields) error {
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
		arg, err := normalizeExpenseField(col, val)
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

	query := "UPDATE expenses SET " + joinSets(sets) + " WHERE id = ?"
	if _, err := t.backend.db.Exec(query, args...); err != nil {
		return fmt.Errorf("updating expense %d: %w", id, err)
	}
	return t.backend.persistExpenses()
}

// Delete removes the expense. Unrestricted: nothing references expenses.
func (t *expensesTable) Delete(id int) error {
	if id < 1 {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	res, err := t.backend.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	if err := t.backend.persistExpenses(); err != nil {
		return err
	}
	t.backend.log.Info("expense deleted", "id", id)
	return nil
}

func (t *expensesTable) Exists(id int) (bool, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	return t.existsLocked(id)
}

func (t *expensesTable) existsLocked(id int) (bool, error) {
	var one int
	err := t.backend.db.QueryRow("SELECT 1 FROM expenses WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking expense %d: %w", id, err)
	}
	return true, nil
}

func normalizeExpenseField(col string, val any) (any, error) {
	switch col {
	case "id":
		return nil, types.ErrFieldImmutable
	case "vehicle_id":
		return nil, types.ErrFieldImmutable
	case "type", "date", "description":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", types.ErrValidation, col)
		}
		return s, nil
	case "amount":
		switch a := val.(type) {
		case decimal.Decimal:
			return a.String(), nil
		case string:
			d, err := types.ParseMoney(a)
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
