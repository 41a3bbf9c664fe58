// Package report derives dashboard statistics and grouped summaries by
// re-scanning the three collections. It reads through the Ledger interfaces
// only and never mutates.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotforge/lotledger/pkg/types"
)

// saleDateLayout is the date format sales are expected to carry. Rows with
// dates that do not parse are silently excluded from the monthly breakdown.
const saleDateLayout = "2006-01-02"

// topProfitableLimit caps the most-profitable ranking.
const topProfitableLimit = 10

// DashboardStats summarizes the whole store for the landing view.
type DashboardStats struct {
	TotalVehicles   int             `json:"total_vehicles"`
	InStockVehicles int             `json:"in_stock_vehicles"`
	SoldVehicles    int             `json:"sold_vehicles"`
	InventoryValue  decimal.Decimal `json:"total_inventory_value"` // sum of price where In Stock
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	SalesRevenue    decimal.Decimal `json:"total_sales_revenue"`
	GrossProfit     decimal.Decimal `json:"gross_profit"` // revenue minus purchase cost of sold vehicles
	NetProfit       decimal.Decimal `json:"net_profit"`   // gross profit minus all expenses
}

// MakeSummary counts vehicles per make.
type MakeSummary struct {
	Make    string `json:"make"`
	Total   int    `json:"total"`
	InStock int    `json:"in_stock"`
	Sold    int    `json:"sold"`
}

// ExpenseTypeSummary totals expenses per type.
type ExpenseTypeSummary struct {
	Type  string          `json:"type"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total_amount"`
}

// MonthSummary totals sales per calendar month.
type MonthSummary struct {
	Month   string          `json:"month"` // YYYY-MM
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProfitEntry is one row of the most-profitable ranking: a sold vehicle with
// its sale, expense total, and resulting profit.
type ProfitEntry struct {
	Vehicle       string          `json:"vehicle"` // "Make Model Year"
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Expenses      decimal.Decimal `json:"expenses"`
	Profit        decimal.Decimal `json:"profit"`
	SaleDate      string          `json:"sale_date"`
}

// GroupedReport bundles every grouped summary.
type GroupedReport struct {
	ByMake        []MakeSummary        `json:"make_summary"`
	ByExpenseType []ExpenseTypeSummary `json:"expense_summary"`
	ByMonth       []MonthSummary       `json:"sales_by_month"`
	TopProfitable []ProfitEntry        `json:"vehicle_profits"`
}

// SoldVehicleSummary is one per-sale row of the sold-vehicle listing:
// everything needed to render or export a sale record with its costs.
type SoldVehicleSummary struct {
	SaleID        int             `json:"sale_id"`
	Vehicle       *types.Vehicle  `json:"vehicle"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	SaleDate      string          `json:"sale_date"`
	BuyerInfo     string          `json:"buyer_info"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ExpenseCount  int             `json:"expense_count"`
}

// Dashboard computes the landing-view statistics from a full scan of the
// three collections.
func Dashboard(ledger types.Ledger) (*DashboardStats, error) {
	vehicles, expenses, sales, err := scanAll(ledger)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalVehicles:  len(vehicles),
		InventoryValue: decimal.Zero,
		TotalExpenses:  decimal.Zero,
		SalesRevenue:   decimal.Zero,
	}

	byID := make(map[int]*types.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
		switch v.Status {
		case types.StatusInStock:
			stats.InStockVehicles++
			stats.InventoryValue = stats.InventoryValue.Add(v.Price)
		case types.StatusSold:
			stats.SoldVehicles++
		}
	}

	for _, e := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(e.Amount)
	}

	soldCost := decimal.Zero
	for _, s := range sales {
		stats.SalesRevenue = stats.SalesRevenue.Add(s.SalePrice)
		if v, ok := byID[s.VehicleID]; ok {
			soldCost = soldCost.Add(v.Price)
		}
	}

	stats.GrossProfit = stats.SalesRevenue.Sub(soldCost)
	stats.NetProfit = stats.GrossProfit.Sub(stats.TotalExpenses)
	return stats, nil
}

// Grouped computes the grouped summaries. Group orderings are deterministic:
// makes and expense types alphabetical, months chronological, the profit
// ranking by profit descending with ties kept in sale encounter order.
func Grouped(ledger types.Ledger) (*GroupedReport, error) {
	vehicles, expenses, sales, err := scanAll(ledger)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*types.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	// By make.
	makes := make(map[string]*MakeSummary)
	for _, v := range vehicles {
		m, ok := makes[v.Make]
		if !ok {
			m = &MakeSummary{Make: v.Make}
			makes[v.Make] = m
		}
		m.Total++
		switch v.Status {
		case types.StatusInStock:
			m.InStock++
		case types.StatusSold:
			m.Sold++
		}
	}

	// By expense type.
	expenseTypes := make(map[string]*ExpenseTypeSummary)
	for _, e := range expenses {
		t, ok := expenseTypes[e.Type]
		if !ok {
			t = &ExpenseTypeSummary{Type: e.Type, Total: decimal.Zero}
			expenseTypes[e.Type] = t
		}
		t.Count++
		t.Total = t.Total.Add(e.Amount)
	}

	// By month, skipping unparseable sale dates.
	months := make(map[string]*MonthSummary)
	for _, s := range sales {
		d, err := time.Parse(saleDateLayout, s.SaleDate)
		if err != nil {
			continue
		}
		key := d.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthSummary{Month: key, Revenue: decimal.Zero}
			months[key] = m
		}
		m.Count++
		m.Revenue = m.Revenue.Add(s.SalePrice)
	}

	// Most profitable, in sale encounter order before ranking.
	expensesByVehicle := make(map[int]decimal.Decimal)
	for _, e := range expenses {
		sum, ok := expensesByVehicle[e.VehicleID]
		if !ok {
			sum = decimal.Zero
		}
		expensesByVehicle[e.VehicleID] = sum.Add(e.Amount)
	}
	var profits []ProfitEntry
	for _, s := range sales {
		v, ok := byID[s.VehicleID]
		if !ok {
			continue
		}
		spent, ok := expensesByVehicle[s.VehicleID]
		if !ok {
			spent = decimal.Zero
		}
		profits = append(profits, ProfitEntry{
			Vehicle:       fmt.Sprintf("%s %s %d", v.Make, v.Model, v.Year),
			PurchasePrice: v.Price,
			SalePrice:     s.SalePrice,
			Expenses:      spent,
			Profit:        s.SalePrice.Sub(v.Price).Sub(spent),
			SaleDate:      s.SaleDate,
		})
	}
	sort.SliceStable(profits, func(i, j int) bool {
		return profits[i].Profit.GreaterThan(profits[j].Profit)
	})
	if len(profits) > topProfitableLimit {
		profits = profits[:topProfitableLimit]
	}

	return &GroupedReport{
		ByMake:        sortedMakes(makes),
		ByExpenseType: sortedExpenseTypes(expenseTypes),
		ByMonth:       sortedMonths(months),
		TopProfitable: profits,
	}, nil
}

// SoldVehicles returns one summary row per sale, newest sale date first.
// Sales whose vehicle record is missing are skipped.
func SoldVehicles(ledger types.Ledger) ([]SoldVehicleSummary, error) {
	vehicles, expenses, sales, err := scanAll(ledger)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*types.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}
	expensesByVehicle := make(map[int][]*types.Expense)
	for _, e := range expenses {
		expensesByVehicle[e.VehicleID] = append(expensesByVehicle[e.VehicleID], e)
	}

	var out []SoldVehicleSummary
	for _, s := range sales {
		v, ok := byID[s.VehicleID]
		if !ok {
			continue
		}
		spent := decimal.Zero
		for _, e := range expensesByVehicle[s.VehicleID] {
			spent = spent.Add(e.Amount)
		}
		out = append(out, SoldVehicleSummary{
			SaleID:        s.ID,
			Vehicle:       v,
			PurchasePrice: v.Price,
			SalePrice:     s.SalePrice,
			SaleDate:      s.SaleDate,
			BuyerInfo:     s.BuyerInfo,
			TotalExpenses: spent,
			NetProfit:     s.SalePrice.Sub(v.Price).Sub(spent),
			ExpenseCount:  len(expensesByVehicle[s.VehicleID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SaleDate > out[j].SaleDate
	})
	return out, nil
}

// scanAll reads all three collections in one place so every report sees a
// consistent snapshot of the calls it makes.
func scanAll(ledger types.Ledger) ([]*types.Vehicle, []*types.Expense, []*types.Sale, error) {
	vehicles, err := ledger.Vehicles().Fetch(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scanning vehicles: %w", err)
	}
	expenses, err := ledger.Expenses().Fetch(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scanning expenses: %w", err)
	}
	sales, err := ledger.Sales().Fetch(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scanning sales: %w", err)
	}
	return vehicles, expenses, sales, nil
}

func sortedMakes(m map[string]*MakeSummary) []MakeSummary {
	out := make([]MakeSummary, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Make < out[j].Make })
	return out
}

func sortedExpenseTypes(m map[string]*ExpenseTypeSummary) []ExpenseTypeSummary {
	out := make([]ExpenseTypeSummary, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func sortedMonths(m map[string]*MonthSummary) []MonthSummary {
	out := make([]MonthSummary, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
