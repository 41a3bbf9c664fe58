// Bill get command retrieves a vehicle's stored document.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var billGetOutput string

var billGetCmd = &cobra.Command{
	Use:   "get <vehicle-id>",
	Short: "Retrieve a vehicle's bill-of-sale document",
	Long: `Get writes the vehicle's stored document to --output, or to stdout
when --output is not set.

Example:
  lotledger bill get 3 --output ./bill.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runBillGet,
}

func init() {
	billGetCmd.Flags().StringVar(&billGetOutput, "output", "", "destination file (default: stdout)")
}

func runBillGet(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ledger, bills, err := openBills(cmd.Context())
	if err != nil {
		return err
	}
	defer ledger.Detach()

	info, rc, err := bills.Open(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get bill of sale: %w", err)
	}
	defer rc.Close()

	dst := io.Writer(os.Stdout)
	if billGetOutput != "" {
		f, err := os.Create(billGetOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		dst = f
	}

	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	if billGetOutput != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes, %s)\n", billGetOutput, info.Size, info.ContentType)
	}
	return nil
}
