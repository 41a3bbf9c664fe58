// Vehicle update command changes selected fields of a record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	vehicleUpdateMake   string
	vehicleUpdateModel  string
	vehicleUpdateYear   int
	vehicleUpdateVIN    string
	vehicleUpdatePrice  string
	vehicleUpdateDate   string
	vehicleUpdateNotes  string
	vehicleUpdateStatus string
)

var vehicleUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a vehicle",
	Long: `Update changes only the fields whose flags are set; everything
else keeps its stored value.

Example:
  lotledger vehicle update 3 --price 12750
  lotledger vehicle update 3 --notes "new tires" --date 2026-04-01`,
	Args: cobra.ExactArgs(1),
	RunE: runVehicleUpdate,
}

func init() {
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateMake, "make", "", "manufacturer")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateModel, "model", "", "model")
	vehicleUpdateCmd.Flags().IntVar(&vehicleUpdateYear, "year", 0, "model year")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateVIN, "vin", "", "vehicle identification number")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdatePrice, "price", "", "purchase price")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateDate, "date", "", "purchase date (YYYY-MM-DD)")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateNotes, "notes", "", "free-form notes")
	vehicleUpdateCmd.Flags().StringVar(&vehicleUpdateStatus, "status", "", `status ("In Stock" or "Sold")`)
}

func runVehicleUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	fields := types.Fields{}
	if cmd.Flags().Changed("make") {
		fields["make"] = vehicleUpdateMake
	}
	if cmd.Flags().Changed("model") {
		fields["model"] = vehicleUpdateModel
	}
	if cmd.Flags().Changed("year") {
		fields["year"] = vehicleUpdateYear
	}
	if cmd.Flags().Changed("vin") {
		fields["vin"] = vehicleUpdateVIN
	}
	if cmd.Flags().Changed("price") {
		fields["price"] = vehicleUpdatePrice
	}
	if cmd.Flags().Changed("date") {
		fields["date"] = vehicleUpdateDate
	}
	if cmd.Flags().Changed("notes") {
		fields["notes"] = vehicleUpdateNotes
	}
	if cmd.Flags().Changed("status") {
		fields["status"] = vehicleUpdateStatus
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", types.ErrValidation)
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	if err := ledger.Vehicles().Update(id, fields); err != nil {
		return fmt.Errorf("update vehicle %d: %w", id, err)
	}

	saved, err := ledger.Vehicles().Get(id)
	if err != nil {
		return fmt.Errorf("fetch updated vehicle: %w", err)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Updated vehicle %d\n", saved.ID)
	return nil
}
