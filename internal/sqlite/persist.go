// CSV persistence after mutations. Each helper rewrites one collection file
// from the query engine, in storage order (ascending id, which is also
// insertion order because IDs are assigned max+1).
package sqlite

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/lotforge/lotledger/pkg/types"
)

func (b *Backend) persistVehicles() error {
	rows, err := b.db.Query(
		`SELECT id, make, model, year, vin, price, date, notes, status, bill_of_sale_filename
		 FROM vehicles ORDER BY id`)
	if err != nil {
		return fmt.Errorf("%w: reading vehicles for persist: %v", types.ErrStorage, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var id, year int
		var mk, model, vin, price, date, notes, status, bill string
		if err := rows.Scan(&id, &mk, &model, &year, &vin, &price, &date, &notes, &status, &bill); err != nil {
			return fmt.Errorf("%w: scanning vehicle row: %v", types.ErrStorage, err)
		}
		out = append(out, []string{
			strconv.Itoa(id), mk, model, strconv.Itoa(year), vin, price, date, notes, status, bill,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating vehicle rows: %v", types.ErrStorage, err)
	}
	return writeCSV(filepath.Join(b.dataDir, vehiclesFile), vehiclesHeader, out)
}

func (b *Backend) persistExpenses() error {
	rows, err := b.db.Query(
		`SELECT id, vehicle_id, type, amount, date, description FROM expenses ORDER BY id`)
	if err != nil {
		return fmt.Errorf("%w: reading expenses for persist: %v", types.ErrStorage, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var id, vehicleID int
		var typ, amount, date, desc string
		if err := rows.Scan(&id, &vehicleID, &typ, &amount, &date, &desc); err != nil {
			return fmt.Errorf("%w: scanning expense row: %v", types.ErrStorage, err)
		}
		out = append(out, []string{
			strconv.Itoa(id), strconv.Itoa(vehicleID), typ, amount, date, desc,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating expense rows: %v", types.ErrStorage, err)
	}
	return writeCSV(filepath.Join(b.dataDir, expensesFile), expensesHeader, out)
}

func (b *Backend) persistSales() error {
	rows, err := b.db.Query(
		`SELECT id, vehicle_id, sale_price, sale_date, buyer_info, sale_notes FROM sales ORDER BY id`)
	if err != nil {
		return fmt.Errorf("%w: reading sales for persist: %v", types.ErrStorage, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var id, vehicleID int
		var price, date, buyer, notes string
		if err := rows.Scan(&id, &vehicleID, &price, &date, &buyer, &notes); err != nil {
			return fmt.Errorf("%w: scanning sale row: %v", types.ErrStorage, err)
		}
		out = append(out, []string{
			strconv.Itoa(id), strconv.Itoa(vehicleID), price, date, buyer, notes,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating sale rows: %v", types.ErrStorage, err)
	}
	return writeCSV(filepath.Join(b.dataDir, salesFile), salesHeader, out)
}
