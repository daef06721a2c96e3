package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sellerpulse",
	Short: "sellerpulse - product lifecycle analytics for e-commerce sellers",
	Long: `sellerpulse CLI

Turns the raw per-day seller feed into the four lifecycle tables:
Daily, Segments, Board and Windows.

Usage:
  go run ./cmd/sellerpulse [command]

Examples:
  go run ./cmd/sellerpulse run
  go run ./cmd/sellerpulse run --shop shop-123
  go run ./cmd/sellerpulse schedule --cron "30 2 * * *"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
