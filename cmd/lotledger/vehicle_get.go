// Vehicle get command shows one record with its expenses and sale.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var vehicleGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a vehicle with its expenses and sale",
	Args:  cobra.ExactArgs(1),
	RunE:  runVehicleGet,
}

// vehicleDetail is the JSON shape for vehicle get.
type vehicleDetail struct {
	Vehicle  *types.Vehicle   `json:"vehicle"`
	Expenses []*types.Expense `json:"expenses"`
	Sale     *types.Sale      `json:"sale,omitempty"`
}

func runVehicleGet(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	vehicle, err := ledger.Vehicles().Get(id)
	if err != nil {
		return fmt.Errorf("get vehicle %d: %w", id, err)
	}

	expenses, err := ledger.Expenses().Fetch(types.Filter{"vehicle_id": id})
	if err != nil {
		return fmt.Errorf("fetch expenses: %w", err)
	}

	sales, err := ledger.Sales().Fetch(types.Filter{"vehicle_id": id})
	if err != nil {
		return fmt.Errorf("fetch sales: %w", err)
	}
	var sale *types.Sale
	if len(sales) > 0 {
		sale = sales[0]
	}

	if flagJSON {
		return printJSON(vehicleDetail{Vehicle: vehicle, Expenses: expenses, Sale: sale})
	}

	fmt.Printf("Vehicle %d: %d %s %s\n", vehicle.ID, vehicle.Year, vehicle.Make, vehicle.Model)
	fmt.Println("  VIN:   ", vehicle.VIN)
	fmt.Println("  Price: ", vehicle.Price.StringFixed(2))
	fmt.Println("  Status:", vehicle.Status)
	if vehicle.Date != "" {
		fmt.Println("  Date:  ", vehicle.Date)
	}
	if vehicle.Notes != "" {
		fmt.Println("  Notes: ", vehicle.Notes)
	}
	if vehicle.BillOfSaleFile != "" {
		fmt.Println("  Bill:  ", vehicle.BillOfSaleFile)
	}

	if len(expenses) > 0 {
		fmt.Printf("Expenses (%d):\n", len(expenses))
		for _, e := range expenses {
			fmt.Printf("  %d: %s %s", e.ID, e.Type, e.Amount.StringFixed(2))
			if e.Date != "" {
				fmt.Printf(" on %s", e.Date)
			}
			fmt.Println()
		}
	}

	if sale != nil {
		fmt.Printf("Sold for %s on %s\n", sale.SalePrice.StringFixed(2), sale.SaleDate)
		if sale.BuyerInfo != "" {
			fmt.Println("  Buyer:", sale.BuyerInfo)
		}
	}
	return nil
}
