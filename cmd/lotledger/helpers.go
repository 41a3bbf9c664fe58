// Shared helpers for lotledger CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lotforge/lotledger/internal/blob"
	"github.com/lotforge/lotledger/internal/sqlite"
	"github.com/lotforge/lotledger/pkg/types"
)

// attachLedger builds the configuration, creates a backend, and attaches
// it. The caller must defer ledger.Detach().
func attachLedger() (*sqlite.Backend, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	ledger := sqlite.New(logger)
	if err := ledger.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach ledger: %w", err)
	}
	return ledger, nil
}

// openBills attaches the ledger and wires the bill-of-sale manager over the
// configured blob store. The caller must defer ledger.Detach().
func openBills(ctx context.Context) (*sqlite.Backend, *blob.BillOfSale, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
	}

	ledger := sqlite.New(logger)
	if err := ledger.Attach(cfg); err != nil {
		return nil, nil, fmt.Errorf("attach ledger: %w", err)
	}

	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		_ = ledger.Detach()
		return nil, nil, fmt.Errorf("open blob store: %w", err)
	}
	return ledger, blob.NewBillOfSale(store, ledger, logger), nil
}

// parseRecordID parses a positional ID argument.
func parseRecordID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// truncate shortens s for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
