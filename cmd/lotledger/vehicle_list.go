// Vehicle list command queries inventory.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	vehicleListStatus string
	vehicleListSearch string
)

var vehicleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles",
	Long: `List fetches vehicle records and displays them in storage order.

Use --status to filter by status and --search to match against make,
model, year, or VIN.

Example:
  lotledger vehicle list
  lotledger vehicle list --status "In Stock"
  lotledger vehicle list --search civic --json`,
	RunE: runVehicleList,
}

func init() {
	vehicleListCmd.Flags().StringVar(&vehicleListStatus, "status", "", `filter by status ("In Stock" or "Sold")`)
	vehicleListCmd.Flags().StringVar(&vehicleListSearch, "search", "", "substring match on make, model, year, or VIN")
}

func runVehicleList(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	filter := types.Filter{}
	if vehicleListStatus != "" {
		filter["status"] = vehicleListStatus
	}
	if vehicleListSearch != "" {
		filter["search"] = vehicleListSearch
	}

	vehicles, err := ledger.Vehicles().Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch vehicles: %w", err)
	}

	if flagJSON {
		return printJSON(vehicles)
	}
	printVehicleTable(vehicles)
	return nil
}

// printVehicleTable prints vehicles in a human-readable table format.
func printVehicleTable(vehicles []*types.Vehicle) {
	if len(vehicles) == 0 {
		fmt.Println("No vehicles found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tYEAR\tMAKE\tMODEL\tVIN\tPRICE\tSTATUS")
	fmt.Fprintln(w, "--\t----\t----\t-----\t---\t-----\t------")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Year,
			truncate(v.Make, 20),
			truncate(v.Model, 20),
			v.VIN,
			v.Price.StringFixed(2),
			v.Status,
		)
	}
	w.Flush()

	output := sb.String()
	for _, line := range strings.Split(output, "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d vehicle(s)\n", len(vehicles))
}
