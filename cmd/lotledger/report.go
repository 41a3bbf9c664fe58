// Report commands print grouped summaries and sold-vehicle history.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show grouped inventory and sales summaries",
	Long: `Report groups the ledger by make, expense type, and sale month,
and lists the most profitable sold vehicles.

Example:
  lotledger report
  lotledger report --json
  lotledger report sold`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var reportSoldCSV bool

var reportSoldCmd = &cobra.Command{
	Use:   "sold",
	Short: "List sold vehicles with per-vehicle profit",
	Long: `Sold lists every sale with its vehicle, newest first, including the
purchase price, sale price, expense total, and net profit.

Use --csv for a spreadsheet-ready export on stdout.

Example:
  lotledger report sold
  lotledger report sold --csv > sold.csv`,
	Args: cobra.NoArgs,
	RunE: runReportSold,
}

func init() {
	reportSoldCmd.Flags().BoolVar(&reportSoldCSV, "csv", false, "write CSV to stdout")
	reportCmd.AddCommand(reportSoldCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	grouped, err := report.Grouped(ledger)
	if err != nil {
		return fmt.Errorf("compute report: %w", err)
	}

	if flagJSON {
		return printJSON(grouped)
	}

	if len(grouped.ByMake) > 0 {
		fmt.Println("By make")
		w := newTable()
		fmt.Fprintln(w, "  MAKE\tTOTAL\tIN STOCK\tSOLD")
		for _, m := range grouped.ByMake {
			fmt.Fprintf(w, "  %s\t%d\t%d\t%d\n", m.Make, m.Total, m.InStock, m.Sold)
		}
		flushTable(w)
	}

	if len(grouped.ByExpenseType) > 0 {
		fmt.Println("By expense type")
		w := newTable()
		fmt.Fprintln(w, "  TYPE\tCOUNT\tTOTAL")
		for _, e := range grouped.ByExpenseType {
			fmt.Fprintf(w, "  %s\t%d\t%s\n", e.Type, e.Count, e.Total.StringFixed(2))
		}
		flushTable(w)
	}

	if len(grouped.ByMonth) > 0 {
		fmt.Println("Sales by month")
		w := newTable()
		fmt.Fprintln(w, "  MONTH\tCOUNT\tREVENUE")
		for _, m := range grouped.ByMonth {
			fmt.Fprintf(w, "  %s\t%d\t%s\n", m.Month, m.Count, m.Revenue.StringFixed(2))
		}
		flushTable(w)
	}

	if len(grouped.TopProfitable) > 0 {
		fmt.Println("Most profitable")
		w := newTable()
		fmt.Fprintln(w, "  VEHICLE\tBOUGHT\tSOLD\tEXPENSES\tPROFIT")
		for _, p := range grouped.TopProfitable {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				truncate(p.Vehicle, 32),
				p.PurchasePrice.StringFixed(2),
				p.SalePrice.StringFixed(2),
				p.Expenses.StringFixed(2),
				p.Profit.StringFixed(2),
			)
		}
		flushTable(w)
	}
	return nil
}

func runReportSold(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	sold, err := report.SoldVehicles(ledger)
	if err != nil {
		return fmt.Errorf("compute sold report: %w", err)
	}

	if reportSoldCSV {
		return writeSoldCSV(sold)
	}
	if flagJSON {
		return printJSON(sold)
	}

	if len(sold) == 0 {
		fmt.Println("No sold vehicles.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "SALE\tVEHICLE\tSOLD ON\tBOUGHT\tSOLD FOR\tEXPENSES\tNET")
	for _, s := range sold {
		label := fmt.Sprintf("%d %s %s", s.Vehicle.Year, s.Vehicle.Make, s.Vehicle.Model)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.SaleID,
			truncate(label, 32),
			s.SaleDate,
			s.PurchasePrice.StringFixed(2),
			s.SalePrice.StringFixed(2),
			s.TotalExpenses.StringFixed(2),
			s.NetProfit.StringFixed(2),
		)
	}
	flushTable(w)
	fmt.Printf("Total: %d sold vehicle(s)\n", len(sold))
	return nil
}

// writeSoldCSV writes the sold-vehicle report as CSV on stdout, one row per
// sale with the same columns as the table view.
func writeSoldCSV(sold []report.SoldVehicleSummary) error {
	w := csv.NewWriter(os.Stdout)
	header := []string{"sale_id", "year", "make", "model", "vin", "sale_date", "buyer_info",
		"purchase_price", "sale_price", "total_expenses", "net_profit"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, s := range sold {
		row := []string{
			strconv.Itoa(s.SaleID),
			strconv.Itoa(s.Vehicle.Year),
			s.Vehicle.Make,
			s.Vehicle.Model,
			s.Vehicle.VIN,
			s.SaleDate,
			s.BuyerInfo,
			s.PurchasePrice.StringFixed(2),
			s.SalePrice.StringFixed(2),
			s.TotalExpenses.StringFixed(2),
			s.NetProfit.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// table wraps a tabwriter so report sections all print the same way.
type table struct {
	*tabwriter.Writer
	sb *strings.Builder
}

func newTable() *table {
	sb := &strings.Builder{}
	return &table{Writer: tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0), sb: sb}
}

func flushTable(t *table) {
	t.Flush()
	for _, line := range strings.Split(t.sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
}
