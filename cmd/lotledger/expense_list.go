// Expense list command queries recorded costs.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	expenseListVehicle int
	expenseListType    string
)

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Long: `List fetches expense records in storage order.

Use --vehicle to filter by vehicle and --type to match the category.

Example:
  lotledger expense list
  lotledger expense list --vehicle 3
  lotledger expense list --type repair --json`,
	RunE: runExpenseList,
}

func init() {
	expenseListCmd.Flags().IntVar(&expenseListVehicle, "vehicle", 0, "filter by vehicle ID")
	expenseListCmd.Flags().StringVar(&expenseListType, "type", "", "substring match on expense category")
}

func runExpenseList(cmd *cobra.Command, args []string) error {
	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	filter := types.Filter{}
	if expenseListVehicle > 0 {
		filter["vehicle_id"] = expenseListVehicle
	}
	if expenseListType != "" {
		filter["type"] = expenseListType
	}

	expenses, err := ledger.Expenses().Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch expenses: %w", err)
	}

	if flagJSON {
		return printJSON(expenses)
	}
	printExpenseTable(expenses)
	return nil
}

// printExpenseTable prints expenses in a human-readable table format.
func printExpenseTable(expenses []*types.Expense) {
	if len(expenses) == 0 {
		fmt.Println("No expenses found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tVEHICLE\tTYPE\tAMOUNT\tDATE")
	fmt.Fprintln(w, "--\t-------\t----\t------\t----")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			e.ID,
			e.VehicleID,
			truncate(e.Type, 24),
			e.Amount.StringFixed(2),
			e.Date,
		)
	}
	w.Flush()

	output := sb.String()
	for _, line := range strings.Split(output, "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d expense(s)\n", len(expenses))
}
