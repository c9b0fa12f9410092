package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
)

var rootCmd = &cobra.Command{
	Use:   "oneil",
	Short: "Oneil model toolchain",
	Long: `oneil is a reference driver over the Oneil declarative modeling
language: lexing, parsing, resolution, and evaluation each exposed as
their own subcommand for inspection and debugging.

This driver is a thin example consumer of the core library — it
contains no model-evaluation logic of its own.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
