// Package corrector applies the salvage transformations to a Sage 100
// export: NCC normalization and synthesis, payment-method defaulting and
// line-total recomputation. It always writes a timestamped copy; the
// original workbook is never mutated.
package corrector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mikaelarth/FNEV4-sub000/internal/extractor"
	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
	"github.com/Mikaelarth/FNEV4-sub000/internal/workbook"
	"github.com/Mikaelarth/FNEV4-sub000/pkg/models"
)

// syntheticNCCStart seeds the counter used when a business client carries no
// NCC at all. Synthesized numbers are zero-padded to seven digits with a B
// suffix, so the first one is 0001000B.
const syntheticNCCStart = 1000

// Change records one rewritten cell.
type Change struct {
	Sheet string
	Row   int
	Field string
	Old   string
	New   string
}

// Result names the two files a corrector run produced.
type Result struct {
	WorkbookPath string
	ReportPath   string
	Changes      []Change
}

// Corrector rewrites salvageable cells of an invoice workbook.
type Corrector struct {
	log zerolog.Logger

	// now is swappable so tests get stable file names.
	now func() time.Time
}

// New creates a corrector.
func New() *Corrector {
	return &Corrector{
		log: logger.WithComponent("corrector"),
		now: time.Now,
	}
}

// Run opens the workbook, applies every transformation, saves the corrected
// copy and the corrections report into outDir (the working directory when
// empty) and returns both paths. When saving fails the partial report is
// still written and the error returned; the source file is never touched.
func (c *Corrector) Run(path, outDir string) (*Result, error) {
	book, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	changes := c.Apply(book)

	timestamp := c.now().Format("20060102_150405")
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	correctedPath := filepath.Join(outDir, fmt.Sprintf("%s_corrected_%s%s", stem, timestamp, filepath.Ext(path)))
	reportPath := filepath.Join(outDir, fmt.Sprintf("corrections_report_%s.txt", timestamp))

	result := &Result{
		WorkbookPath: correctedPath,
		ReportPath:   reportPath,
		Changes:      changes,
	}

	saveErr := book.SaveAs(correctedPath)
	if saveErr != nil {
		result.WorkbookPath = ""
		saveErr = fmt.Errorf("failed to save corrected workbook: %w", saveErr)
	}

	if err := c.writeReport(reportPath, path, changes, saveErr); err != nil {
		c.log.Error().Err(err).Str("path", reportPath).Msg("Failed to write corrections report")
		if saveErr == nil {
			return result, err
		}
	}

	c.log.Info().
		Str("source", path).
		Str("corrected", result.WorkbookPath).
		Str("report", reportPath).
		Int("changes", len(changes)).
		Msg("Correction run finished")

	return result, saveErr
}

// Apply runs the four transformations, in order, on every sheet and returns
// the recorded changes. Each transformation is idempotent: a second pass
// over corrected data records nothing.
func (c *Corrector) Apply(book *workbook.Book) []Change {
	var changes []Change
	nccCounter := syntheticNCCStart

	for _, sheet := range book.Sheets() {
		changes = append(changes, c.normalizeNCCCells(book, sheet)...)
		changes = append(changes, c.synthesizeNCC(book, sheet, &nccCounter)...)
		changes = append(changes, c.defaultPaymentMethod(book, sheet)...)
		changes = append(changes, c.recomputeLineTotals(book, sheet)...)
	}

	return changes
}

// normalizeNCCCells reformats the business (A6) and client divers (A15) NCC
// cells: separators stripped, uppercased, and when still invalid reshaped
// from the first seven digits plus the first letter (or A).
func (c *Corrector) normalizeNCCCells(book *workbook.Book, sheet string) []Change {
	var changes []Change

	for _, spot := range []struct {
		row   int
		field string
	}{
		{extractor.RowClientTaxNumber, "tax_number"},
		{extractor.RowWalkInTaxNumber, "walkin_tax_number"},
	} {
		raw := book.Cell(sheet, extractor.HeaderColumn, spot.row)
		if raw == "" {
			continue
		}

		normalized := models.NormalizeNCC(raw)
		if !models.ValidNCC(normalized) {
			reshaped, ok := models.ReshapeNCC(normalized)
			if !ok {
				c.log.Warn().
					Str("sheet", sheet).
					Int("row", spot.row).
					Str("value", raw).
					Msg("NCC not salvageable, leaving as-is")
				continue
			}
			normalized = reshaped
		}

		if normalized == raw {
			continue
		}
		if err := book.SetCell(sheet, extractor.HeaderColumn, spot.row, normalized); err != nil {
			c.log.Error().Err(err).Str("sheet", sheet).Int("row", spot.row).Msg("Cell write failed")
			continue
		}
		changes = append(changes, Change{Sheet: sheet, Row: spot.row, Field: spot.field, Old: raw, New: normalized})
	}

	return changes
}

// synthesizeNCC allocates a synthetic NCC for business-client sheets whose
// A6 cell is empty. The counter is monotonic across the whole run, so two
// sheets never receive the same number.
func (c *Corrector) synthesizeNCC(book *workbook.Book, sheet string, counter *int) []Change {
	clientCode := book.Cell(sheet, extractor.HeaderColumn, extractor.RowClientCode)
	if clientCode == "" || clientCode == models.WalkInClientCode {
		return nil
	}
	if book.Cell(sheet, extractor.HeaderColumn, extractor.RowClientTaxNumber) != "" {
		return nil
	}

	synthetic := fmt.Sprintf("%07dB", *counter)
	*counter++

	if err := book.SetCell(sheet, extractor.HeaderColumn, extractor.RowClientTaxNumber, synthetic); err != nil {
		c.log.Error().Err(err).Str("sheet", sheet).Msg("NCC synthesis write failed")
		return nil
	}
	return []Change{{Sheet: sheet, Row: extractor.RowClientTaxNumber, Field: "tax_number", Old: "", New: synthetic}}
}

// defaultPaymentMethod fills an empty A18: cash for client divers, bank
// transfer otherwise.
func (c *Corrector) defaultPaymentMethod(book *workbook.Book, sheet string) []Change {
	if book.Cell(sheet, extractor.HeaderColumn, extractor.RowPaymentMethod) != "" {
		return nil
	}

	clientCode := book.Cell(sheet, extractor.HeaderColumn, extractor.RowClientCode)
	value := models.DefaultPaymentMethodCell(clientCode)

	if err := book.SetCell(sheet, extractor.HeaderColumn, extractor.RowPaymentMethod, value); err != nil {
		c.log.Error().Err(err).Str("sheet", sheet).Msg("Payment method write failed")
		return nil
	}
	return []Change{{Sheet: sheet, Row: extractor.RowPaymentMethod, Field: "payment_method", Old: "", New: value}}
}

// recomputeLineTotals rewrites H cells that drift more than 0.01 from D*E.
func (c *Corrector) recomputeLineTotals(book *workbook.Book, sheet string) []Change {
	var changes []Change

	lastRow := book.LastRow(sheet)
	for row := extractor.FirstItemRow; row <= lastRow; row++ {
		if book.Cell(sheet, extractor.ColProductCode, row) == "" {
			continue
		}

		price, priceErr := extractor.ParseDecimal(book.Cell(sheet, extractor.ColUnitPrice, row))
		quantity, qtyErr := extractor.ParseDecimal(book.Cell(sheet, extractor.ColQuantity, row))
		if priceErr != nil || qtyErr != nil {
			continue
		}

		expected := price.Mul(quantity)
		oldRaw := book.Cell(sheet, extractor.ColAmountExcl, row)
		current, err := extractor.ParseDecimal(oldRaw)
		if err == nil && current.Sub(expected).Abs().LessThanOrEqual(models.LineTolerance) {
			continue
		}

		if err := book.SetCell(sheet, extractor.ColAmountExcl, row, expected.String()); err != nil {
			c.log.Error().Err(err).Str("sheet", sheet).Int("row", row).Msg("Line total write failed")
			continue
		}
		changes = append(changes, Change{Sheet: sheet, Row: row, Field: "line_total", Old: oldRaw, New: expected.String()})
	}

	return changes
}

// writeReport emits the plain-text corrections report: one line per change,
// grouped by sheet.
func (c *Corrector) writeReport(path, source string, changes []Change, runErr error) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Corrections report\n")
	fmt.Fprintf(&b, "Source: %s\n", source)
	fmt.Fprintf(&b, "Generated: %s\n", c.now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Changes: %d\n", len(changes))
	if runErr != nil {
		fmt.Fprintf(&b, "RUN INCOMPLETE: %v\n", runErr)
	}
	b.WriteString("\n")

	currentSheet := ""
	for _, change := range changes {
		if change.Sheet != currentSheet {
			currentSheet = change.Sheet
			fmt.Fprintf(&b, "Sheet %s:\n", currentSheet)
		}
		fmt.Fprintf(&b, "  Row %d: %s %s → %s\n", change.Row, change.Field, displayValue(change.Old), change.New)
	}
	if len(changes) == 0 {
		b.WriteString("No corrections needed.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func displayValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	return v
}
