// Sale delete command voids a sale and returns the vehicle to stock.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sale and return the vehicle to stock",
	Args:  cobra.ExactArgs(1),
	RunE:  runSaleDelete,
}

func runSaleDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	if err := ledger.Sales().Delete(id); err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}

	if flagJSON {
		return printJSON(map[string]any{"deleted": id})
	}
	fmt.Printf("Deleted sale %d, vehicle returned to stock\n", id)
	return nil
}
