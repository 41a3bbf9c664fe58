// CSV loading for Attach. Numeric columns are stored as text and parsed
// here; a value that does not parse is storage corruption, not user input,
// and aborts the Attach with a types.ErrStorage wrapped error.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lotforge/lotledger/pkg/types"
)

// loadAllCSV reads each collection file and inserts its rows into the
// corresponding SQLite table. Loading is transactional: either every
// collection loads or the engine stays empty.
func loadAllCSV(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning load transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	if err := loadVehicles(tx, dataDir); err != nil {
		return err
	}
	if err := loadExpenses(tx, dataDir); err != nil {
		return err
	}
	if err := loadSales(tx, dataDir); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing load transaction: %v", types.ErrStorage, err)
	}
	return nil
}

func loadVehicles(tx *sql.Tx, dataDir string) error {
	rows, err := readCSV(filepath.Join(dataDir, vehiclesFile), vehiclesHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		id, err := parseID(vehiclesFile, row[0])
		if err != nil {
			return err
		}
		year, err := strconv.Atoi(row[3])
		if err != nil {
			return corrupt(vehiclesFile, "year", row[3])
		}
		price, err := checkMoney(vehiclesFile, "price", row[5])
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO vehicles (id, make, model, year, vin, price, date, notes, status, bill_of_sale_filename)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, row[1], row[2], year, row[4], price, row[6], row[7], row[8], row[9],
		)
		if err != nil {
			return fmt.Errorf("%w: loading %s row %d: %v", types.ErrStorage, vehiclesFile, id, err)
		}
	}
	return nil
}

func loadExpenses(tx *sql.Tx, dataDir string) error {
	rows, err := readCSV(filepath.Join(dataDir, expensesFile), expensesHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		id, err := parseID(expensesFile, row[0])
		if err != nil {
			return err
		}
		vehicleID, err := strconv.Atoi(row[1])
		if err != nil {
			return corrupt(expensesFile, "vehicle_id", row[1])
		}
		amount, err := checkMoney(expensesFile, "amount", row[3])
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO expenses (id, vehicle_id, type, amount, date, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, vehicleID, row[2], amount, row[4], row[5],
		)
		if err != nil {
			return fmt.Errorf("%w: loading %s row %d: %v", types.ErrStorage, expensesFile, id, err)
		}
	}
	return nil
}

func loadSales(tx *sql.Tx, dataDir string) error {
	rows, err := readCSV(filepath.Join(dataDir, salesFile), salesHeader)
	if err != nil {
		return err
	}
	for _, row := range rows {
		id, err := parseID(salesFile, row[0])
		if err != nil {
			return err
		}
		vehicleID, err := strconv.Atoi(row[1])
		if err != nil {
			return corrupt(salesFile, "vehicle_id", row[1])
		}
		salePrice, err := checkMoney(salesFile, "sale_price", row[2])
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO sales (id, vehicle_id, sale_price, sale_date, buyer_info, sale_notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, vehicleID, salePrice, row[3], row[4], row[5],
		)
		if err != nil {
			return fmt.Errorf("%w: loading %s row %d: %v", types.ErrStorage, salesFile, id, err)
		}
	}
	return nil
}

func parseID(file, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, corrupt(file, "id", raw)
	}
	return id, nil
}

// checkMoney validates a stored money value and returns its canonical
// text form. Empty cells read as zero.
func checkMoney(file, column, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "0", nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", corrupt(file, column, raw)
	}
	return d.String(), nil
}

func corrupt(file, column, value string) error {
	return fmt.Errorf("%w: %s has a malformed %s value %q", types.ErrStorage, file, column, value)
}
