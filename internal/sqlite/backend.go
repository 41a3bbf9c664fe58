package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lotforge/lotledger/pkg/types"
)

// engineFile is the SQLite query-engine database inside DataDir. It is
// rebuilt from the CSV files on every Attach; the CSV files are the source
// of truth.
const engineFile = "lotledger.db"

// Backend implements types.Ledger with SQLite as the query engine and the
// CSV collections as the source of truth.
//
// Every operation holds the backend mutex, which serializes the
// read-modify-rewrite cycle per process and closes the torn-write race two
// concurrent inserts would otherwise have. Cross-process writers remain
// unsynchronized, same as the original flat-file workflow.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	log      *slog.Logger

	vehicles *vehiclesTable
	expenses *expensesTable
	sales    *salesTable
}

// Compile-time interface check.
var _ types.Ledger = (*Backend)(nil)

// New creates a detached Backend. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{log: log}
}

// Attach opens the store: creates DataDir and empty collection files on
// first run, rebuilds the SQLite engine, and loads every collection into it.
// Returns ErrAlreadyAttached if called while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir: %v", types.ErrStorage, err)
	}

	if err := initCSVFiles(dataDir); err != nil {
		return err
	}

	// The engine file is disposable; rebuild it fresh each Attach.
	dbPath := filepath.Join(dataDir, engineFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("%w: opening query engine: %v", types.ErrStorage, err)
	}
	for _, stmt := range allSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("%w: initializing schema: %v", types.ErrStorage, err)
		}
	}

	if err := loadAllCSV(db, dataDir); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true
	b.vehicles = &vehiclesTable{backend: b}
	b.expenses = &expensesTable{backend: b}
	b.sales = &salesTable{backend: b}

	b.log.Debug("ledger attached",
		"data_dir", dataDir,
		"delete_policy", config.EffectiveDeletePolicy())
	return nil
}

// Detach closes the query engine. Idempotent: detaching a detached backend
// succeeds. The CSV files already hold every committed mutation, so there is
// nothing to flush.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("%w: closing query engine: %v", types.ErrStorage, err)
		}
		b.db = nil
	}
	b.attached = false
	b.vehicles = nil
	b.expenses = nil
	b.sales = nil
	b.log.Debug("ledger detached")
	return nil
}

// Vehicles returns the vehicles collection. The zero-value detachedVehicles
// is returned when the backend is not attached, so the nil check stays in
// one place.
func (b *Backend) Vehicles() types.VehicleTable {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return detachedVehicles{}
	}
	return b.vehicles
}

// Expenses returns the expenses collection.
func (b *Backend) Expenses() types.ExpenseTable {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return detachedExpenses{}
	}
	return b.expenses
}

// Sales returns the sales collection.
func (b *Backend) Sales() types.SaleTable {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return detachedSales{}
	}
	return b.sales
}

// initCSVFiles creates missing collection files with their header rows.
// Existing files are left alone.
func initCSVFiles(dataDir string) error {
	for _, c := range []struct {
		file   string
		header []string
	}{
		{vehiclesFile, vehiclesHeader},
		{expensesFile, expensesHeader},
		{salesFile, salesHeader},
	} {
		path := filepath.Join(dataDir, c.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("%w: checking %s: %v", types.ErrStorage, path, err)
		}
		if err := writeCSV(path, c.header, nil); err != nil {
			return err
		}
	}
	return nil
}

// nextID computes the next record ID for a collection: max existing +1,
// starting at 1. IDs are never reused by design; deleting the highest record
// frees its ID for the next insert, matching the original behavior.
func nextID(tx *sql.Tx, table string) (int, error) {
	var id int
	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM " + table).Scan(&id); err != nil {
		return 0, fmt.Errorf("computing next %s id: %w", table, err)
	}
	return id, nil
}

// detachedVehicles, detachedExpenses, and detachedSales answer every
// operation with ErrLedgerDetached.
type detachedVehicles struct{}

func (detachedVehicles) Get(int) (*types.Vehicle, error) { return nil, types.ErrLedgerDetached }
func (detachedVehicles) Fetch(types.Filter) ([]*types.Vehicle, error) {
	return nil, types.ErrLedgerDetached
}
func (detachedVehicles) Insert(*types.Vehicle) (int, error) { return 0, types.ErrLedgerDetached }
func (detachedVehicles) Update(int, types.Fields) error     { return types.ErrLedgerDetached }
func (detachedVehicles) Delete(int) (types.CascadeResult, error) {
	return types.CascadeResult{}, types.ErrLedgerDetached
}
func (detachedVehicles) Exists(int) (bool, error)       { return false, types.ErrLedgerDetached }
func (detachedVehicles) VINExists(string) (bool, error) { return false, types.ErrLedgerDetached }

type detachedExpenses struct{}

func (detachedExpenses) Get(int) (*types.Expense, error) { return nil, types.ErrLedgerDetached }
func (detachedExpenses) Fetch(types.Filter) ([]*types.Expense, error) {
	return nil, types.ErrLedgerDetached
}
func (detachedExpenses) Insert(*types.Expense) (int, error) { return 0, types.ErrLedgerDetached }
func (detachedExpenses) Update(int, types.Fields) error     { return types.ErrLedgerDetached }
func (detachedExpenses) Delete(int) error                   { return types.ErrLedgerDetached }
func (detachedExpenses) Exists(int) (bool, error)           { return false, types.ErrLedgerDetached }

type detachedSales struct{}

func (detachedSales) Get(int) (*types.Sale, error)              { return nil, types.ErrLedgerDetached }
func (detachedSales) Fetch(types.Filter) ([]*types.Sale, error) { return nil, types.ErrLedgerDetached }
func (detachedSales) Insert(*types.Sale) (int, error)           { return 0, types.ErrLedgerDetached }
func (detachedSales) Update(int, types.Fields) error            { return types.ErrLedgerDetached }
func (detachedSales) Delete(int) error                          { return types.ErrLedgerDetached }
func (detachedSales) Exists(int) (bool, error)                  { return false, types.ErrLedgerDetached }
