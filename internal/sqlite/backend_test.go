// Tests for the CSV-backed ledger.
package sqlite

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotforge/lotledger/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestLedger attaches a backend to a fresh temp directory.
func newTestLedger(t *testing.T, policy string) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := New(testLogger())
	cfg := types.Config{DataDir: dir, DeletePolicy: policy}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { _ = b.Detach() })
	return b, dir
}

func addVehicle(t *testing.T, b *Backend, vin string) int {
	t.Helper()
	id, err := b.Vehicles().Insert(&types.Vehicle{
		Make:  "Honda",
		Model: "Civic",
		Year:  2019,
		VIN:   vin,
		Price: decimal.NewFromInt(10000),
		Date:  "2026-01-15",
	})
	require.NoError(t, err)
	return id
}

func TestAttachCreatesCollectionFiles(t *testing.T) {
	_, dir := newTestLedger(t, "")

	for _, name := range []string{vehiclesFile, expensesFile, salesFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, strings.TrimSpace(string(data)), "%s should hold a header even when empty", name)
	}
}

func TestAttachTwiceFails(t *testing.T) {
	b, dir := newTestLedger(t, "")
	err := b.Attach(types.Config{DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestDetachIsIdempotent(t *testing.T) {
	b, _ := newTestLedger(t, "")
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
}

func TestOperationsAfterDetach(t *testing.T) {
	b, _ := newTestLedger(t, "")
	require.NoError(t, b.Detach())

	_, err := b.Vehicles().Get(1)
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	_, err = b.Vehicles().Insert(&types.Vehicle{Make: "a", Model: "b", Year: 2000, VIN: "v"})
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	_, err = b.Expenses().Fetch(nil)
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
	err = b.Sales().Delete(1)
	assert.ErrorIs(t, err, types.ErrLedgerDetached)
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	b, _ := newTestLedger(t, "")

	assert.Equal(t, 1, addVehicle(t, b, "VIN00001"))
	assert.Equal(t, 2, addVehicle(t, b, "VIN00002"))
	assert.Equal(t, 3, addVehicle(t, b, "VIN00003"))

	// After deleting the highest ID, the next insert reuses it.
	_, err := b.Vehicles().Delete(3)
	require.NoError(t, err)
	assert.Equal(t, 3, addVehicle(t, b, "VIN00004"))
}

func TestInsertDefaultsStatusInStock(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	v, err := b.Vehicles().Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInStock, v.Status)
	assert.True(t, v.InStock())
}

func TestInsertRejectsDuplicateVIN(t *testing.T) {
	b, _ := newTestLedger(t, "")
	addVehicle(t, b, "1ABC")

	_, err := b.Vehicles().Insert(&types.Vehicle{
		Make: "Ford", Model: "F-150", Year: 2017, VIN: "1abc",
	})
	assert.ErrorIs(t, err, types.ErrDuplicateVIN, "VIN uniqueness is case-insensitive")

	exists, err := b.Vehicles().VINExists("1aBc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetErrors(t *testing.T) {
	b, _ := newTestLedger(t, "")

	_, err := b.Vehicles().Get(99)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = b.Vehicles().Get(0)
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestUpdateMergesFields(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	err := b.Vehicles().Update(id, types.Fields{
		"price": "12750.50",
		"notes": "new tires",
	})
	require.NoError(t, err)

	v, err := b.Vehicles().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Honda", v.Make, "untouched fields keep their values")
	assert.Equal(t, "new tires", v.Notes)
	assert.True(t, v.Price.Equal(decimal.RequireFromString("12750.50")))
}

func TestUpdateRejectsBadFields(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	err := b.Vehicles().Update(id, types.Fields{"id": 7})
	assert.ErrorIs(t, err, types.ErrFieldImmutable)

	err = b.Vehicles().Update(id, types.Fields{"color": "red"})
	assert.ErrorIs(t, err, types.ErrUnknownField)

	err = b.Vehicles().Update(id, types.Fields{"status": "Pending"})
	assert.ErrorIs(t, err, types.ErrInvalidStatus)

	err = b.Vehicles().Update(id, types.Fields{"price": "abc"})
	assert.ErrorIs(t, err, types.ErrInvalidAmount)

	err = b.Vehicles().Update(99, types.Fields{"notes": "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdateRejectsDuplicateVIN(t *testing.T) {
	b, _ := newTestLedger(t, "")
	addVehicle(t, b, "VIN00001")
	id2 := addVehicle(t, b, "VIN00002")

	err := b.Vehicles().Update(id2, types.Fields{"vin": "vin00001"})
	assert.ErrorIs(t, err, types.ErrDuplicateVIN)

	// Writing a vehicle's own VIN back is not a conflict.
	err = b.Vehicles().Update(id2, types.Fields{"vin": "VIN00002"})
	assert.NoError(t, err)
}

func TestRecordsSurviveReattach(t *testing.T) {
	b, dir := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")
	_, err := b.Expenses().Insert(&types.Expense{
		VehicleID: id, Type: "Repairs", Amount: decimal.NewFromInt(450), Date: "2026-02-01",
	})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := New(testLogger())
	require.NoError(t, b2.Attach(types.Config{DataDir: dir}))
	defer b2.Detach()

	v, err := b2.Vehicles().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "VIN00001", v.VIN)

	expenses, err := b2.Expenses().Fetch(types.Filter{"vehicle_id": id})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(450)))
}

func TestVehicleFetchFilters(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id1 := addVehicle(t, b, "VIN00001")
	id2, err := b.Vehicles().Insert(&types.Vehicle{
		Make: "Ford", Model: "F-150", Year: 2017, VIN: "VIN00002",
	})
	require.NoError(t, err)

	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: id2, SalePrice: decimal.NewFromInt(14500), SaleDate: "2026-06-20",
	})
	require.NoError(t, err)

	inStock, err := b.Vehicles().Fetch(types.Filter{"status": types.StatusInStock})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, id1, inStock[0].ID)

	// Search matches make, model, year, and VIN, case-insensitively.
	found, err := b.Vehicles().Fetch(types.Filter{"search": "f-150"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id2, found[0].ID)

	found, err = b.Vehicles().Fetch(types.Filter{"search": "2019"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id1, found[0].ID)

	all, err := b.Vehicles().Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].ID, "fetch returns storage order")
}

func TestExpenseRequiresVehicle(t *testing.T) {
	b, _ := newTestLedger(t, "")

	_, err := b.Expenses().Insert(&types.Expense{
		VehicleID: 42, Type: "Repairs", Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, types.ErrVehicleNotFound)
}

func TestSaleMarksVehicleSold(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	_, err := b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: decimal.NewFromInt(14500), SaleDate: "2026-06-20",
	})
	require.NoError(t, err)

	v, err := b.Vehicles().Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSold, v.Status)

	// A sold vehicle cannot be sold again, and no orphan sale is left.
	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: decimal.NewFromInt(15000), SaleDate: "2026-06-21",
	})
	assert.ErrorIs(t, err, types.ErrVehicleNotInStock)

	sales, err := b.Sales().Fetch(types.Filter{"vehicle_id": id})
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	// Missing vehicle.
	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: 42, SalePrice: decimal.NewFromInt(1), SaleDate: "2026-06-21",
	})
	assert.ErrorIs(t, err, types.ErrVehicleNotFound)
}

func TestSaleDeleteRestoresStock(t *testing.T) {
	b, _ := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	saleID, err := b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: decimal.NewFromInt(14500), SaleDate: "2026-06-20",
	})
	require.NoError(t, err)

	require.NoError(t, b.Sales().Delete(saleID))

	v, err := b.Vehicles().Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInStock, v.Status)

	err = b.Sales().Delete(saleID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSaleInsertReportsTornPersist(t *testing.T) {
	b, dir := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	// Make the vehicles.csv rewrite fail after sales.csv goes out: replace
	// the file with a non-empty directory so the rename cannot land.
	vehiclesPath := filepath.Join(dir, vehiclesFile)
	require.NoError(t, os.Remove(vehiclesPath))
	require.NoError(t, os.Mkdir(vehiclesPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vehiclesPath, "occupied"), []byte("x"), 0o644))

	_, err := b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: decimal.NewFromInt(14500), SaleDate: "2026-06-20",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.Contains(t, err.Error(), "store inconsistent")

	// The sale row did land on disk, which is exactly why the error is loud.
	data, err := os.ReadFile(filepath.Join(dir, salesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "14500")
}

func TestVehicleDeleteCascades(t *testing.T) {
	b, _ := newTestLedger(t, types.DeleteCascade)
	id := addVehicle(t, b, "VIN00001")
	keep := addVehicle(t, b, "VIN00002")

	expenseID, err := b.Expenses().Insert(&types.Expense{
		VehicleID: id, Type: "Repairs", Amount: decimal.NewFromInt(450),
	})
	require.NoError(t, err)
	saleID, err := b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: decimal.NewFromInt(14500), SaleDate: "2026-06-20",
	})
	require.NoError(t, err)

	cascaded, err := b.Vehicles().Delete(id)
	require.NoError(t, err)
	assert.Equal(t, []int{expenseID}, cascaded.ExpenseIDs)
	assert.Equal(t, []int{saleID}, cascaded.SaleIDs)
	assert.False(t, cascaded.Empty())

	_, err = b.Vehicles().Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.Expenses().Get(expenseID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.Sales().Get(saleID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Unrelated records stay.
	_, err = b.Vehicles().Get(keep)
	assert.NoError(t, err)
}

func TestVehicleDeleteRestricted(t *testing.T) {
	b, _ := newTestLedger(t, types.DeleteRestrict)
	id := addVehicle(t, b, "VIN00001")

	_, err := b.Expenses().Insert(&types.Expense{
		VehicleID: id, Type: "Repairs", Amount: decimal.NewFromInt(450),
	})
	require.NoError(t, err)

	_, err = b.Vehicles().Delete(id)
	assert.ErrorIs(t, err, types.ErrVehicleReferenced)
	assert.ErrorIs(t, err, types.ErrIntegrity)

	// Still present.
	_, err = b.Vehicles().Get(id)
	assert.NoError(t, err)

	// Without dependents the delete goes through.
	bare := addVehicle(t, b, "VIN00002")
	cascaded, err := b.Vehicles().Delete(bare)
	require.NoError(t, err)
	assert.True(t, cascaded.Empty())
}

func TestAttachRejectsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, vehiclesFile)
	content := strings.Join(vehiclesHeader, ",") + "\n" +
		"abc,Honda,Civic,2019,VIN00001,10000,2026-01-15,,In Stock,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b := New(testLogger())
	err := b.Attach(types.Config{DataDir: dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestAttachRejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, expensesFile)
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n"), 0o644))

	b := New(testLogger())
	err := b.Attach(types.Config{DataDir: dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestAttachRejectsUnknownPolicy(t *testing.T) {
	b := New(testLogger())
	err := b.Attach(types.Config{DataDir: t.TempDir(), DeletePolicy: "soft"})
	assert.ErrorIs(t, err, types.ErrDeletePolicyUnknown)
}

func TestDeleteRewritesFiles(t *testing.T) {
	b, dir := newTestLedger(t, "")
	id := addVehicle(t, b, "VIN00001")

	_, err := b.Vehicles().Delete(id)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, vehiclesFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1, "only the header remains after deleting the last vehicle")
	assert.Equal(t, strings.Join(vehiclesHeader, ","), lines[0])
}
