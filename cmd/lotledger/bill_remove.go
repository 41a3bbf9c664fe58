// Bill remove command deletes a vehicle's stored document.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var billRemoveCmd = &cobra.Command{
	Use:   "remove <vehicle-id>",
	Short: "Remove a vehicle's bill-of-sale document",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillRemove,
}

func runBillRemove(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, bills, err := openBills(cmd.Context())
	if err != nil {
		return err
	}
	defer ledger.Detach()

	existed, err := bills.Remove(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("remove bill of sale: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"vehicle_id": id, "removed": existed})
	}
	if existed {
		fmt.Printf("Removed bill of sale from vehicle %d\n", id)
	} else {
		fmt.Printf("Vehicle %d has no bill of sale\n", id)
	}
	return nil
}
