// Sale list command queries recorded sales.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var saleListVehicle int

var saleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sales",
	Long: `List fetches sale records in storage order.

Example:
  lotledger sale list
  lotledger sale list --vehicle 3 --json`,
	RunE: runSaleList,
}

func init() {
	saleListCmd.Flags().IntVar(&saleListVehicle, "vehicle", 0, "filter by vehicle ID")
}

func runSaleList(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	filter := types.Filter{}
	if saleListVehicle > 0 {
		filter["vehicle_id"] = saleListVehicle
	}

	sales, err := ledger.Sales().Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch sales: %w", err)
	}

	if flagJSON {
		return printJSON(sales)
	}
	printSaleTable(sales)
	return nil
}

// printSaleTable prints sales in a human-readable table format.
func printSaleTable(sales []*types.Sale) {
	if len(sales) == 0 {
		fmt.Println("No sales found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tVEHICLE\tPRICE\tDATE\tBUYER")
	fmt.Fprintln(w, "--\t-------\t-----\t----\t-----")
	for _, s := range sales {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			s.ID,
			s.VehicleID,
			s.SalePrice.StringFixed(2),
			s.SaleDate,
			truncate(s.BuyerInfo, 30),
		)
	}
	w.Flush()

	output := sb.String()
	for _, line := range strings.Split(output, "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d sale(s)\n", len(sales))
}
