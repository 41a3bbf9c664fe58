// Expense delete command removes a recorded cost.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseDelete,
}

func runExpenseDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	if err := ledger.Expenses().Delete(id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}

	if flagJSON {
		return printJSON(map[string]any{"deleted": id})
	}
	fmt.Printf("Deleted expense %d\n", id)
	return nil
}
