// Root command for the lotledger CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotforge/lotledger/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// logger is the process-wide structured logger, built in PersistentPreRunE.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

var rootCmd = &cobra.Command{
	Use:     "lotledger",
	Short:   "Lotledger tracks reseller vehicle inventory, expenses, and sales",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		loadedConfig = cfg
		return nil
	},
}

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Manage vehicle records",
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expense records",
}

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Manage sale records",
}

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Manage bill-of-sale documents",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.lotledger-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)

	vehicleCmd.AddCommand(vehicleAddCmd)
	vehicleCmd.AddCommand(vehicleListCmd)
	vehicleCmd.AddCommand(vehicleGetCmd)
	vehicleCmd.AddCommand(vehicleUpdateCmd)
	vehicleCmd.AddCommand(vehicleDeleteCmd)
	rootCmd.AddCommand(vehicleCmd)

	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	expenseCmd.AddCommand(expenseDeleteCmd)
	rootCmd.AddCommand(expenseCmd)

	saleCmd.AddCommand(saleAddCmd)
	saleCmd.AddCommand(saleListCmd)
	saleCmd.AddCommand(saleDeleteCmd)
	rootCmd.AddCommand(saleCmd)

	billCmd.AddCommand(billAttachCmd)
	billCmd.AddCommand(billGetCmd)
	billCmd.AddCommand(billRemoveCmd)
	rootCmd.AddCommand(billCmd)
}

// resolveDataDir returns the data directory path following precedence:
// --data-dir flag > config.yaml data_dir > LOTLEDGER_DATA_DIR env > default $(CWD)/.lotledger-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following precedence:
// --config-dir flag > LOTLEDGER_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
