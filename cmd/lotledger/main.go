// Package main provides the lotledger CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lotforge/lotledger/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lotledger:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to a process exit code. Validation and
// integrity failures are user errors; everything else is a system error.
func exitCodeFor(err error) int {
	if errors.Is(err, types.ErrValidation) || errors.Is(err, types.ErrIntegrity) {
		return exitUserError
	}
	return exitSysError
}
