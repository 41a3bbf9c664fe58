// Sale add command records a sale and marks the vehicle Sold.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/pkg/types"
)

var (
	saleAddVehicle int
	saleAddPrice   string
	saleAddDate    string
	saleAddBuyer   string
	saleAddNotes   string
)

var saleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a vehicle sale",
	Long: `Add records the sale of an In Stock vehicle and marks it Sold.
A vehicle that is already Sold cannot be sold again.

Example:
  lotledger sale add --vehicle 3 --price 14500 --date 2026-06-20
  lotledger sale add --vehicle 3 --price 14500 --date 2026-06-20 --buyer "J. Alvarez"`,
	RunE: runSaleAdd,
}

func init() {
	saleAddCmd.Flags().IntVar(&saleAddVehicle, "vehicle", 0, "vehicle ID (required)")
	saleAddCmd.Flags().StringVar(&saleAddPrice, "price", "0", "sale price")
	saleAddCmd.Flags().StringVar(&saleAddDate, "date", "", "sale date, YYYY-MM-DD (required)")
	saleAddCmd.Flags().StringVar(&saleAddBuyer, "buyer", "", "buyer information")
	saleAddCmd.Flags().StringVar(&saleAddNotes, "notes", "", "free-form notes")
	_ = saleAddCmd.MarkFlagRequired("vehicle")
	_ = saleAddCmd.MarkFlagRequired("date")
}

func runSaleAdd(cmd *cobra.Command, args []string) error {
	price, err := types.ParseMoney(saleAddPrice)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", saleAddPrice, err)
	}

	ledger, err := attachLedger()
	if err != nil {
		return err
	}
	defer ledger.Detach()

	sale := &types.Sale{
		VehicleID: saleAddVehicle,
		SalePrice: price,
		SaleDate:  saleAddDate,
		BuyerInfo: saleAddBuyer,
		SaleNotes: saleAddNotes,
	}

	id, err := ledger.Sales().Insert(sale)
	if err != nil {
		return fmt.Errorf("add sale: %w", err)
	}

	saved, err := ledger.Sales().Get(id)
	if err != nil {
		return fmt.Errorf("fetch created sale: %w", err)
	}

	if flagJSON {
		return printJSON(saved)
	}
	fmt.Printf("Recorded sale %d: vehicle %d for %s on %s\n", saved.ID, saved.VehicleID, saved.SalePrice.StringFixed(2), saved.SaleDate)
	return nil
}
