package report

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotforge/lotledger/internal/sqlite"
	"github.com/lotforge/lotledger/pkg/types"
)

func newLedger(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedLot loads a small lot: one In Stock Honda at 25000, one Ford bought
// at 8000 and sold for 12000 with 500 of expenses.
func seedLot(t *testing.T, b *sqlite.Backend) (inStockID, soldID int) {
	t.Helper()
	inStockID, err := b.Vehicles().Insert(&types.Vehicle{
		Make: "Honda", Model: "Civic", Year: 2019, VIN: "VIN00001", Price: money("25000"),
	})
	require.NoError(t, err)

	soldID, err = b.Vehicles().Insert(&types.Vehicle{
		Make: "Ford", Model: "F-150", Year: 2017, VIN: "VIN00002", Price: money("8000"),
	})
	require.NoError(t, err)

	_, err = b.Expenses().Insert(&types.Expense{
		VehicleID: soldID, Type: "Repairs", Amount: money("350"), Date: "2026-02-01",
	})
	require.NoError(t, err)
	_, err = b.Expenses().Insert(&types.Expense{
		VehicleID: soldID, Type: "Detailing", Amount: money("150"), Date: "2026-02-10",
	})
	require.NoError(t, err)

	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: soldID, SalePrice: money("12000"), SaleDate: "2026-06-20", BuyerInfo: "J. Alvarez",
	})
	require.NoError(t, err)
	return inStockID, soldID
}

func TestDashboard(t *testing.T) {
	b := newLedger(t)
	seedLot(t, b)

	stats, err := Dashboard(b)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalVehicles)
	assert.Equal(t, 1, stats.InStockVehicles)
	assert.Equal(t, 1, stats.SoldVehicles)
	assert.True(t, stats.InventoryValue.Equal(money("25000")), "got %s", stats.InventoryValue)
	assert.True(t, stats.TotalExpenses.Equal(money("500")), "got %s", stats.TotalExpenses)
	assert.True(t, stats.SalesRevenue.Equal(money("12000")), "got %s", stats.SalesRevenue)
	assert.True(t, stats.GrossProfit.Equal(money("4000")), "got %s", stats.GrossProfit)
	assert.True(t, stats.NetProfit.Equal(money("3500")), "got %s", stats.NetProfit)
}

func TestDashboardEmptyLedger(t *testing.T) {
	b := newLedger(t)

	stats, err := Dashboard(b)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVehicles)
	assert.True(t, stats.NetProfit.IsZero())
}

func TestGrouped(t *testing.T) {
	b := newLedger(t)
	seedLot(t, b)

	grouped, err := Grouped(b)
	require.NoError(t, err)

	require.Len(t, grouped.ByMake, 2)
	assert.Equal(t, "Ford", grouped.ByMake[0].Make, "makes sort alphabetically")
	assert.Equal(t, 1, grouped.ByMake[0].Sold)
	assert.Equal(t, "Honda", grouped.ByMake[1].Make)
	assert.Equal(t, 1, grouped.ByMake[1].InStock)

	require.Len(t, grouped.ByExpenseType, 2)
	assert.Equal(t, "Detailing", grouped.ByExpenseType[0].Type)
	assert.True(t, grouped.ByExpenseType[0].Total.Equal(money("150")))
	assert.Equal(t, "Repairs", grouped.ByExpenseType[1].Type)

	require.Len(t, grouped.ByMonth, 1)
	assert.Equal(t, "2026-06", grouped.ByMonth[0].Month)
	assert.Equal(t, 1, grouped.ByMonth[0].Count)
	assert.True(t, grouped.ByMonth[0].Revenue.Equal(money("12000")))

	require.Len(t, grouped.TopProfitable, 1)
	p := grouped.TopProfitable[0]
	assert.Equal(t, "Ford F-150 2017", p.Vehicle)
	assert.True(t, p.Profit.Equal(money("3500")), "sale minus purchase minus expenses, got %s", p.Profit)
}

func TestGroupedSkipsBadSaleDates(t *testing.T) {
	b := newLedger(t)
	id, err := b.Vehicles().Insert(&types.Vehicle{
		Make: "Honda", Model: "Civic", Year: 2019, VIN: "VIN00001", Price: money("5000"),
	})
	require.NoError(t, err)
	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: id, SalePrice: money("6000"), SaleDate: "sometime in June",
	})
	require.NoError(t, err)

	grouped, err := Grouped(b)
	require.NoError(t, err)
	assert.Empty(t, grouped.ByMonth, "unparseable sale dates do not form a month bucket")
	require.Len(t, grouped.TopProfitable, 1, "profit ranking still includes the sale")
}

func TestGroupedProfitRankingCapped(t *testing.T) {
	b := newLedger(t)

	// 12 sold vehicles with increasing profit.
	for i := 1; i <= 12; i++ {
		id, err := b.Vehicles().Insert(&types.Vehicle{
			Make: "Make", Model: fmt.Sprintf("M%02d", i), Year: 2019,
			VIN: fmt.Sprintf("VIN%05d", i), Price: money("1000"),
		})
		require.NoError(t, err)
		_, err = b.Sales().Insert(&types.Sale{
			VehicleID: id,
			SalePrice: decimal.NewFromInt(int64(1000 + i*100)),
			SaleDate:  "2026-06-20",
		})
		require.NoError(t, err)
	}

	grouped, err := Grouped(b)
	require.NoError(t, err)
	require.Len(t, grouped.TopProfitable, 10)
	assert.Equal(t, "Make M12 2019", grouped.TopProfitable[0].Vehicle, "highest profit ranks first")
	assert.Equal(t, "Make M03 2019", grouped.TopProfitable[9].Vehicle)
}

func TestGroupedProfitTiesKeepSaleOrder(t *testing.T) {
	b := newLedger(t)

	// One clear winner, then three vehicles sold at identical profit.
	prices := []string{"9000", "6000", "6000", "6000"}
	for i, sale := range prices {
		id, err := b.Vehicles().Insert(&types.Vehicle{
			Make: "Make", Model: fmt.Sprintf("M%d", i+1), Year: 2019,
			VIN: fmt.Sprintf("VIN%05d", i+1), Price: money("5000"),
		})
		require.NoError(t, err)
		_, err = b.Sales().Insert(&types.Sale{
			VehicleID: id, SalePrice: money(sale), SaleDate: "2026-06-20",
		})
		require.NoError(t, err)
	}

	grouped, err := Grouped(b)
	require.NoError(t, err)
	require.Len(t, grouped.TopProfitable, 4)
	assert.Equal(t, "Make M1 2019", grouped.TopProfitable[0].Vehicle)
	for i, want := range []string{"Make M2 2019", "Make M3 2019", "Make M4 2019"} {
		assert.Equal(t, want, grouped.TopProfitable[i+1].Vehicle,
			"equal profits keep the order the sales were recorded in")
	}
}

func TestSoldVehicles(t *testing.T) {
	b := newLedger(t)
	_, soldID := seedLot(t, b)

	// A second, earlier sale.
	otherID, err := b.Vehicles().Insert(&types.Vehicle{
		Make: "Toyota", Model: "Corolla", Year: 2015, VIN: "VIN00003", Price: money("4000"),
	})
	require.NoError(t, err)
	_, err = b.Sales().Insert(&types.Sale{
		VehicleID: otherID, SalePrice: money("5500"), SaleDate: "2026-03-05",
	})
	require.NoError(t, err)

	sold, err := SoldVehicles(b)
	require.NoError(t, err)
	require.Len(t, sold, 2)

	assert.Equal(t, soldID, sold[0].Vehicle.ID, "newest sale date first")
	assert.Equal(t, "2026-06-20", sold[0].SaleDate)
	assert.Equal(t, 2, sold[0].ExpenseCount)
	assert.True(t, sold[0].NetProfit.Equal(money("3500")))
	assert.Equal(t, "J. Alvarez", sold[0].BuyerInfo)

	assert.Equal(t, otherID, sold[1].Vehicle.ID)
	assert.True(t, sold[1].NetProfit.Equal(money("1500")))
}
