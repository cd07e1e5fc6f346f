package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Mikaelarth/FNEV4-sub000/internal/config"
	"github.com/Mikaelarth/FNEV4-sub000/internal/extractor"
	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
	"github.com/Mikaelarth/FNEV4-sub000/internal/registry"
	"github.com/Mikaelarth/FNEV4-sub000/internal/report"
	"github.com/Mikaelarth/FNEV4-sub000/internal/validation"
	"github.com/Mikaelarth/FNEV4-sub000/internal/workbook"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workbook> [registry-db]",
	Short: "Validate a Sage 100 invoice workbook against the DGI template rules",
	Long: `Validate reads every sheet of a Sage 100 export (one invoice per sheet),
resolves each invoice's DGI template through the client registry, and applies
the per-template field rules.

When no registry database is given (argument or FNEV4_DB_PATH), validation
runs offline: client divers invoices still validate, business-client invoices
all fail with UnknownClient.

A timestamped text report is written to the working directory. Exit code is 0
only when every sheet is valid.`,
	Example: `  # Validate against the host application's database
  fnev4tools validate export.xlsx fnev4.db

  # Offline validation with a JSON report for the host application
  fnev4tools validate export.xlsx --json results.json`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE:         runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("json", "", "Also write the JSON report to this path")
	validateCmd.Flags().String("report-dir", ".", "Directory for the timestamped text report")
}

func runValidate(cmd *cobra.Command, args []string) error {
	jsonPath, _ := cmd.Flags().GetString("json")
	reportDir, _ := cmd.Flags().GetString("report-dir")

	runID := uuid.New().String()
	log := logger.WithRun("validate", runID)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	workbookPath := args[0]
	dbPath := cfg.RegistryDBPath
	if len(args) == 2 {
		dbPath = args[1]
	}

	log.Info().
		Str("workbook", workbookPath).
		Str("registry", dbPath).
		Msg("Starting validation run")

	reg, offline := openRegistry(dbPath, log)
	defer reg.Close()

	book, err := workbook.Open(workbookPath)
	if err != nil {
		log.Error().Err(err).Str("workbook", workbookPath).Msg("Workbook unreadable")
		return err
	}
	defer book.Close()

	ext := extractor.New()
	validator := validation.New(reg, cfg.LocalCurrency, cfg.IssuerCountry)

	result := &report.Report{
		File:            workbookPath,
		RunID:           runID,
		ValidatedAt:     time.Now(),
		RegistryOffline: offline,
	}
	for _, sheet := range book.Sheets() {
		result.Sheets = append(result.Sheets, validateSheet(cmd.Context(), book, sheet, ext, validator, log))
	}

	textPath, err := result.WriteText(reportDir)
	if err != nil {
		return err
	}
	log.Info().Str("report", textPath).Msg("Text report written")

	if jsonPath != "" {
		if err := result.WriteJSON(jsonPath); err != nil {
			return err
		}
		log.Info().Str("report", jsonPath).Msg("JSON report written")
	}

	fmt.Print(result.Text())

	totals := result.Totals()
	if !result.AllValid() {
		return fmt.Errorf("%d of %d sheets failed validation", totals.Invalid, len(result.Sheets))
	}
	log.Info().Int("sheets", len(result.Sheets)).Msg("All sheets valid")
	return nil
}

// validateSheet extracts and validates one sheet. A panic inside the
// extractor is confined to this sheet and surfaced as ExtractorException so
// the rest of the workbook still gets processed.
func validateSheet(ctx context.Context, book *workbook.Book, sheet string, ext *extractor.Extractor, validator *validation.Validator, log zerolog.Logger) (outcome *validation.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("sheet", sheet).
				Interface("panic", r).
				Msg("Sheet processing panicked")
			outcome = &validation.Outcome{
				Sheet: sheet,
				Errors: []validation.Issue{{
					Code:    validation.CodeExtractorException,
					Message: fmt.Sprintf("unexpected extractor failure: %v", r),
				}},
			}
		}
	}()

	record := ext.ExtractSheet(book, sheet)
	return validator.Validate(ctx, record)
}

// openRegistry opens the host database, degrading to the offline registry
// when no path is given or the database cannot be opened. Offline mode is
// surfaced to the operator: business-client invoices will all fail.
func openRegistry(dbPath string, log zerolog.Logger) (registry.Registry, bool) {
	if dbPath == "" {
		log.Warn().Msg("No registry database configured, validating offline")
		return registry.Offline(), true
	}
	reg, err := registry.Open(dbPath)
	if err != nil {
		log.Warn().Err(err).Str("path", dbPath).Msg("Registry unavailable, validating offline")
		return registry.Offline(), true
	}
	return reg, false
}
