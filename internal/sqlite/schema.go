// Package sqlite implements the SQLite-backed record store for lotledger.
// CSV files are the source of truth; SQLite is the query engine loaded from
// them on Attach. Every mutation commits to SQLite first and then rewrites
// the affected CSV files atomically.
package sqlite

// Schema DDL. Money columns stay TEXT: values are stored verbatim in the
// CSV files and parsed on read.
const (
	createVehicles = `CREATE TABLE vehicles (
    id INTEGER PRIMARY KEY,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    year INTEGER NOT NULL,
    vin TEXT NOT NULL,
    price TEXT NOT NULL,
    date TEXT,
    notes TEXT,
    status TEXT NOT NULL,
    bill_of_sale_filename TEXT
);`

	createExpenses = `CREATE TABLE expenses (
    id INTEGER PRIMARY KEY,
    vehicle_id INTEGER NOT NULL,
    type TEXT NOT NULL,
    amount TEXT NOT NULL,
    date TEXT,
    description TEXT
);`

	createSales = `CREATE TABLE sales (
    id INTEGER PRIMARY KEY,
    vehicle_id INTEGER NOT NULL,
    sale_price TEXT NOT NULL,
    sale_date TEXT,
    buyer_info TEXT,
    sale_notes TEXT
);`
)

// Index DDL for the common lookups.
const (
	idxVehiclesStatus  = `CREATE INDEX idx_vehicles_status ON vehicles(status);`
	idxVehiclesVIN     = `CREATE INDEX idx_vehicles_vin ON vehicles(vin COLLATE NOCASE);`
	idxExpensesVehicle = `CREATE INDEX idx_expenses_vehicle ON expenses(vehicle_id);`
	idxSalesVehicle    = `CREATE INDEX idx_sales_vehicle ON sales(vehicle_id);`
)

// allSchema lists every DDL statement executed on Attach, in order.
var allSchema = []string{
	createVehicles,
	createExpenses,
	createSales,
	idxVehiclesStatus,
	idxVehiclesVIN,
	idxExpensesVehicle,
	idxSalesVehicle,
}
