package types

// Ledger is the backend-agnostic entry point for the record store. Callers
// attach once at process start, hold the handle for the process lifetime,
// and detach when done. After Detach, table operations return
// ErrLedgerDetached.
type Ledger interface {
	// Attach opens the backend described by config, creating the data
	// directory and empty collections on first run. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	Vehicles() VehicleTable
	Expenses() ExpenseTable
	Sales() SaleTable
}

// Filter narrows a Fetch. Keys are table-specific; an empty or nil filter
// matches every record. Unknown keys are ignored.
type Filter map[string]any

// Fields carries a partial update: column name to new value. Keys not
// present keep their stored values (field-level merge).
type Fields map[string]any

// CascadeResult reports dependent records removed by a cascade delete.
type CascadeResult struct {
	ExpenseIDs []int `json:"expense_ids"`
	SaleIDs    []int `json:"sale_ids"`
}

// Empty reports whether the cascade removed nothing beyond the vehicle.
func (r CascadeResult) Empty() bool {
	return len(r.ExpenseIDs) == 0 && len(r.SaleIDs) == 0
}

// VehicleTable is the vehicles collection. Records come back in storage
// order, which is ascending ID order because IDs are assigned max+1.
type VehicleTable interface {
	// Get returns the vehicle with the given ID, or ErrNotFound.
	Get(id int) (*Vehicle, error)

	// Fetch returns vehicles matching the filter in storage order.
	// Recognized keys: "status" (string), "search" (string, matched
	// case-insensitively against make, model, year, and VIN).
	Fetch(filter Filter) ([]*Vehicle, error)

	// Insert validates the vehicle, assigns the next ID (max existing +1,
	// starting at 1), forces status to In Stock when empty, and appends
	// the record. Rejects duplicate VINs case-insensitively.
	Insert(v *Vehicle) (int, error)

	// Update merges the given fields into the stored record. Unknown
	// columns are rejected; ID is immutable. Returns ErrNotFound for an
	// unknown ID.
	Update(id int, fields Fields) error

	// Delete removes the vehicle under the configured delete policy.
	// Under cascade it first removes referencing expenses and sales and
	// reports them; under restrict it returns ErrVehicleReferenced while
	// any reference exists. Returns ErrNotFound for an unknown ID.
	Delete(id int) (CascadeResult, error)

	// Exists reports whether a vehicle with the given ID exists.
	Exists(id int) (bool, error)

	// VINExists reports whether any vehicle carries the VIN, compared
	// case-insensitively and regardless of status.
	VINExists(vin string) (bool, error)
}

// ExpenseTable is the expenses collection.
type ExpenseTable interface {
	Get(id int) (*Expense, error)

	// Fetch recognized keys: "vehicle_id" (int), "type" (string,
	// case-insensitive substring match).
	Fetch(filter Filter) ([]*Expense, error)

	// Insert validates the expense, requires the referenced vehicle to
	// exist, assigns the next ID, and appends the record.
	Insert(e *Expense) (int, error)

	// Update merges fields; vehicle_id is immutable once recorded.
	Update(id int, fields Fields) error

	// Delete removes the expense. Unrestricted.
	Delete(id int) error

	Exists(id int) (bool, error)
}

// SaleTable is the sales collection. Insert and Delete carry the
// referential-integrity side effects on the referenced vehicle.
type SaleTable interface {
	Get(id int) (*Sale, error)

	// Fetch recognized keys: "vehicle_id" (int).
	Fetch(filter Filter) ([]*Sale, error)

	// Insert requires the referenced vehicle to exist with status In
	// Stock, assigns the next ID, appends the sale, and flips the vehicle
	// to Sold as one logical operation.
	Insert(s *Sale) (int, error)

	// Update merges fields; vehicle_id is immutable once recorded.
	Update(id int, fields Fields) error

	// Delete removes the sale and restores the referenced vehicle to In
	// Stock.
	Delete(id int) error

	Exists(id int) (bool, error)
}
