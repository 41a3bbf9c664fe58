// Stats command prints dashboard totals.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory and profit totals",
	Long: `Stats summarizes the whole ledger: vehicle counts by status,
inventory value of In Stock vehicles, total expenses, sales revenue, and
gross and net profit over sold vehicles.

Example:
  lotledger stats
  lotledger stats --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	stats, err := report.Dashboard(ledger)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	if flagJSON {
		return printJSON(stats)
	}

	fmt.Println("Vehicles")
	fmt.Printf("  total:    %d\n", stats.TotalVehicles)
	fmt.Printf("  in stock: %d\n", stats.InStockVehicles)
	fmt.Printf("  sold:     %d\n", stats.SoldVehicles)
	fmt.Println("Money")
	fmt.Printf("  inventory value: %s\n", stats.InventoryValue.StringFixed(2))
	fmt.Printf("  total expenses:  %s\n", stats.TotalExpenses.StringFixed(2))
	fmt.Printf("  sales revenue:   %s\n", stats.SalesRevenue.StringFixed(2))
	fmt.Printf("  gross profit:    %s\n", stats.GrossProfit.StringFixed(2))
	fmt.Printf("  net profit:      %s\n", stats.NetProfit.StringFixed(2))
	return nil
}
