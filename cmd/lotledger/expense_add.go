// Expense add command records a cost against a vehicle.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	expenseAddVehicle     int
	expenseAddType        string
	expenseAddAmount      string
	expenseAddDate        string
	expenseAddDescription string
)

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense against a vehicle",
	Long: `Add records an expense for an existing vehicle.

Example:
  lotledger expense add --vehicle 3 --type Repairs --amount 450.00
  lotledger expense add --vehicle 3 --type Detailing --amount 120 --date 2026-05-02`,
	RunE: runExpenseAdd,
}

func init() {
	expenseAddCmd.Flags().IntVar(&expenseAddVehicle, "vehicle", 0, "vehicle ID (required)")
	expenseAddCmd.Flags().StringVar(&expenseAddType, "type", "", "expense category (required)")
	expenseAddCmd.Flags().StringVar(&expenseAddAmount, "amount", "0", "amount spent")
	expenseAddCmd.Flags().StringVar(&expenseAddDate, "date", "", "expense date (YYYY-MM-DD)")
	expenseAddCmd.Flags().StringVar(&expenseAddDescription, "description", "", "free-form description")
	_ = expenseAddCmd.MarkFlagRequired("vehicle")
	_ = expenseAddCmd.MarkFlagRequired("type")
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	amount, err := types.ParseMoney(expenseAddAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", expenseAddAmount, err)
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	expense := &types.Expense{
		VehicleID:   expenseAddVehicle,
		Type:        expenseAddType,
		Amount:      amount,
		Date:        expenseAddDate,
		Description: expenseAddDescription,
	}

	id, err := ledger.Expenses().Insert(expense)
	if err != nil {
		return fmt.Errorf("add expense: %w", err)
	}

	saved, err := ledger.Expenses().Get(id)
	if err != nil {
		return fmt.Errorf("fetch created expense: %w", err)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Added expense %d: %s %s for vehicle %d\n", saved.ID, saved.Type, saved.Amount.StringFixed(2), saved.VehicleID)
	return nil
}
