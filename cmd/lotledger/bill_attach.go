// Bill attach command stores a bill-of-sale document for a vehicle.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var billAttachCmd = &cobra.Command{
	Use:   "attach <vehicle-id> <file>",
	Short: "Attach a bill-of-sale document to a vehicle",
	Long: `Attach stores a document for the vehicle, replacing any existing one.
Accepted types: pdf, jpg, jpeg, png. Maximum size 16 MiB.

Example:
  lotledger bill attach 3 ./bill.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runBillAttach,
}

func runBillAttach(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	ledger, bills, err := openBills(cmd.Context())
	if err != nil {
		return err
	}
	defer ledger.Detach()

	key, err := bills.Attach(cmd.Context(), id, filepath.Base(args[1]), data)
	if err != nil {
		return fmt.Errorf("attach bill of sale: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"vehicle_id": id, "key": key})
	}
	fmt.Printf("Attached bill of sale to vehicle %d: %s\n", id, key)
	return nil
}
