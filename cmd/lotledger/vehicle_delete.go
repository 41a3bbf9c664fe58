// Vehicle delete command removes a record and, under the cascade policy,
// its dependents. A stored bill-of-sale document goes with the record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vehicleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a vehicle",
	Long: `Delete removes a vehicle record. Under the cascade delete policy
its expenses and sale records go with it; under the restrict policy the
delete is refused while dependents exist. Any stored bill-of-sale
document is removed with the record.

Example:
  lotledger vehicle delete 3
  lotledger vehicle delete 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVehicleDelete,
}

func runVehicleDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, bills, err := openBills(cmd.Context())
	if err != nil {
		return err
	}
	defer ledger.Detach()

	// Capture the blob key before the record disappears.
	vehicle, err := ledger.Vehicles().Get(id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}

	cascaded, err := ledger.Vehicles().Delete(id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}

	// The record is gone either way; a failed blob cleanup is only worth
	// a warning.
	if _, err := bills.Purge(cmd.Context(), vehicle.BillOfSaleFile); err != nil {
		logger.Warn("vehicle deleted but bill of sale not removed",
			"vehicle_id", id, "key", vehicle.BillOfSaleFile, "error", err)
	}

	if flagJSON {
		result := map[string]any{
			"deleted":              id,
			"cascaded_expense_ids": cascaded.ExpenseIDs,
			"cascaded_sale_ids":    cascaded.SaleIDs,
		}
		return printJSON(result)
	}

	fmt.Printf("Deleted vehicle %d\n", id)
	if !cascaded.Empty() {
		fmt.Printf("  removed %d expense(s), %d sale(s)\n", len(cascaded.ExpenseIDs), len(cascaded.SaleIDs))
	}
	return nil
}
