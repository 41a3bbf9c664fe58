// CSV read/write helpers with atomic persistence. Each collection file is a
// header row followed by one row per record; rewriting an empty collection
// still emits the header.
package sqlite

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lotforge/lotledger/pkg/types"
)

// Collection file names inside DataDir.
const (
	vehiclesFile = "vehicles.csv"
	expensesFile = "expenses.csv"
	salesFile    = "sales.csv"
)

// Header rows, column order fixed per collection.
var (
	vehiclesHeader = []string{"id", "make", "model", "year", "vin", "price", "date", "notes", "status", "bill_of_sale_filename"}
	expensesHeader = []string{"id", "vehicle_id", "type", "amount", "date", "description"}
	salesHeader    = []string{"id", "vehicle_id", "sale_price", "sale_date", "buyer_info", "sale_notes"}
)

// readCSV reads a collection file and returns its data rows. The header must
// match the expected columns and every row must have the expected shape;
// anything else is storage corruption, surfaced as types.ErrStorage so
// callers can tell it apart from bad input.
func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrStorage, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed row in %s: %v", types.ErrStorage, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is missing its header row", types.ErrStorage, path)
	}
	if !sameHeader(rows[0], header) {
		return nil, fmt.Errorf("%w: %s has an unexpected header row", types.ErrStorage, path)
	}
	return rows[1:], nil
}

// writeCSV atomically rewrites a collection file using the temp-file, fsync,
// rename pattern. The header is always written, even for zero rows.
func writeCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".csv-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", types.ErrStorage, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing header: %v", types.ErrStorage, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("%w: writing row: %v", types.ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: flushing rows: %v", types.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %v", types.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", types.ErrStorage, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %v", types.ErrStorage, err)
	}
	return nil
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
