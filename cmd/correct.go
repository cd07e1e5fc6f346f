package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Mikaelarth/FNEV4-sub000/internal/corrector"
	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
)

var correctCmd = &cobra.Command{
	Use:   "correct <workbook>",
	Short: "Rewrite salvageable cells of a Sage 100 workbook into a corrected copy",
	Long: `Correct applies the automated repair transformations to an invoice
workbook: NCC normalization and best-effort reshaping, synthetic NCCs for
business clients without one, default payment methods (ESPECES for client
divers, VIREMENT otherwise) and recomputed line totals.

The corrected workbook and a corrections report are written with timestamped
names to the working directory. The source file is never modified.`,
	Example: `  fnev4tools correct export.xlsx
  fnev4tools correct export.xlsx --out-dir ./corrected`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCorrect,
}

func init() {
	rootCmd.AddCommand(correctCmd)

	correctCmd.Flags().String("out-dir", ".", "Directory for the corrected workbook and report")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")

	runID := uuid.New().String()
	log := logger.WithRun("correct", runID)

	workbookPath := args[0]
	log.Info().Str("workbook", workbookPath).Msg("Starting correction run")

	result, err := corrector.New().Run(workbookPath, outDir)
	if err != nil {
		log.Error().Err(err).Str("workbook", workbookPath).Msg("Correction run failed")
		return err
	}

	fmt.Printf("Corrected workbook: %s\n", result.WorkbookPath)
	fmt.Printf("Corrections report: %s\n", result.ReportPath)
	fmt.Printf("Changes applied:    %d\n", len(result.Changes))
	return nil
}
