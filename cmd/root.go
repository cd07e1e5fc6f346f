package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "fnev4tools",
	Short: "FNEV4 tools - Sage 100 import validation and correction",
	Long: `FNEV4 tools checks Sage 100 invoice workbooks before they are imported
into the FNE certification application.

The validator reads one invoice per sheet, classifies each into its DGI
template (B2B, B2C, B2G, B2F) against the client registry, and reports every
error and warning per sheet. The corrector rewrites salvageable cells (NCC
formats, missing payment methods, drifting line totals) into a timestamped
copy; the source workbook is never modified.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
