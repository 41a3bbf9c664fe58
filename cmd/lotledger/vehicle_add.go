// Vehicle add command creates an inventory record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	vehicleAddMake   string
	vehicleAddModel  string
	vehicleAddYear   int
	vehicleAddVIN    string
	vehicleAddPrice  string
	vehicleAddDate   string
	vehicleAddNotes  string
	vehicleAddStatus string
)

var vehicleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a vehicle to inventory",
	Long: `Add creates a new vehicle record. New vehicles start In Stock.

Example:
  lotledger vehicle add --make Honda --model Civic --year 2019 --vin 2HGFC2F59KH512345
  lotledger vehicle add --make Ford --model F-150 --year 2017 --vin 1FTEW1EP5HFA12345 --price 18500 --date 2026-03-12`,
	RunE: runVehicleAdd,
}

func init() {
	vehicleAddCmd.Flags().StringVar(&vehicleAddMake, "make", "", "manufacturer (required)")
	vehicleAddCmd.Flags().StringVar(&vehicleAddModel, "model", "", "model (required)")
	vehicleAddCmd.Flags().IntVar(&vehicleAddYear, "year", 0, "model year (required)")
	vehicleAddCmd.Flags().StringVar(&vehicleAddVIN, "vin", "", "vehicle identification number (required)")
	vehicleAddCmd.Flags().StringVar(&vehicleAddPrice, "price", "0", "purchase price")
	vehicleAddCmd.Flags().StringVar(&vehicleAddDate, "date", "", "purchase date (YYYY-MM-DD)")
	vehicleAddCmd.Flags().StringVar(&vehicleAddNotes, "notes", "", "free-form notes")
	vehicleAddCmd.Flags().StringVar(&vehicleAddStatus, "status", "", "initial status (default: In Stock)")
	_ = vehicleAddCmd.MarkFlagRequired("make")
	_ = vehicleAddCmd.MarkFlagRequired("model")
	_ = vehicleAddCmd.MarkFlagRequired("year")
	_ = vehicleAddCmd.MarkFlagRequired("vin")
}

func runVehicleAdd(cmd *cobra.Command, args []string) error {
	price, err := types.ParseMoney(vehicleAddPrice)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", vehicleAddPrice, err)
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	vehicle := &types.Vehicle{
		Make:   vehicleAddMake,
		Model:  vehicleAddModel,
		Year:   vehicleAddYear,
		VIN:    vehicleAddVIN,
		Price:  price,
		Date:   vehicleAddDate,
		Notes:  vehicleAddNotes,
		Status: vehicleAddStatus,
	}

	id, err := ledger.Vehicles().Insert(vehicle)
	if err != nil {
		return fmt.Errorf("add vehicle: %w", err)
	}

	saved, err := ledger.Vehicles().Get(id)
	if err != nil {
		return fmt.Errorf("fetch created vehicle: %w", err)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Added vehicle %d: %d %s %s (%s)\n", saved.ID, saved.Year, saved.Make, saved.Model, saved.VIN)
	return nil
}
