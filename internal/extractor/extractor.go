// Package extractor reads the fixed positional layout of Sage 100 invoice
// sheets into InvoiceRecord values. It never judges validity: malformed
// numeric cells are recorded on the line and zeroed so the validator can
// keep going, and an unparseable date only clears the DateParsed flag.
package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
	"github.com/Mikaelarth/FNEV4-sub000/internal/workbook"
	"github.com/Mikaelarth/FNEV4-sub000/pkg/models"
)

// serialEpoch is the spreadsheet serial-day epoch. Sage exports use the
// 30-December-1899 convention; do not "correct" it to 1-January-1900.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Extractor assembles invoice records from workbook sheets.
type Extractor struct {
	log zerolog.Logger
}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{log: logger.WithComponent("extractor")}
}

// ExtractSheet reads one sheet into an InvoiceRecord.
func (e *Extractor) ExtractSheet(book *workbook.Book, sheet string) *models.InvoiceRecord {
	record := &models.InvoiceRecord{
		SheetName:                sheet,
		InvoiceNumber:            book.Cell(sheet, HeaderColumn, RowInvoiceNumber),
		ClientCode:               book.Cell(sheet, HeaderColumn, RowClientCode),
		ClientTaxNumberHeader:    book.Cell(sheet, HeaderColumn, RowClientTaxNumber),
		DateRaw:                  book.Cell(sheet, HeaderColumn, RowInvoiceDate),
		PointOfSale:              book.Cell(sheet, HeaderColumn, RowPointOfSale),
		ClientDisplayName:        book.Cell(sheet, HeaderColumn, RowClientDisplayName),
		WalkInRealName:           book.Cell(sheet, HeaderColumn, RowWalkInRealName),
		WalkInTaxNumber:          book.Cell(sheet, HeaderColumn, RowWalkInTaxNumber),
		CountryCode:              book.Cell(sheet, HeaderColumn, RowCountryCode),
		OriginalInvoiceReference: book.Cell(sheet, HeaderColumn, RowOriginalReference),
		PaymentMethod:            book.Cell(sheet, HeaderColumn, RowPaymentMethod),
		Currency:                 book.Cell(sheet, HeaderColumn, RowCurrency),
	}

	if date, ok := ParseDate(record.DateRaw); ok {
		record.InvoiceDate = date
		record.DateParsed = true
	}

	record.Items = e.harvestLines(book, sheet)

	e.log.Debug().
		Str("sheet", sheet).
		Str("invoice_number", record.InvoiceNumber).
		Str("client_code", record.ClientCode).
		Int("lines", len(record.Items)).
		Msg("Sheet extracted")

	return record
}

// harvestLines collects product rows from row 20 through the last nonempty
// row of the sheet. A row with an empty product code is skipped, not treated
// as a terminator: Sage exports leave holes.
func (e *Extractor) harvestLines(book *workbook.Book, sheet string) []models.InvoiceLine {
	var items []models.InvoiceLine

	lastRow := book.LastRow(sheet)
	for row := FirstItemRow; row <= lastRow; row++ {
		productCode := book.Cell(sheet, ColProductCode, row)
		if productCode == "" {
			continue
		}

		line := models.InvoiceLine{
			Row:         row,
			ProductCode: productCode,
			Description: book.Cell(sheet, ColDescription, row),
			Packaging:   book.Cell(sheet, ColPackaging, row),
			TaxCode:     book.Cell(sheet, ColTaxCode, row),
		}

		line.UnitPrice = e.numericCell(book, sheet, ColUnitPrice, row, &line)
		line.Quantity = e.numericCell(book, sheet, ColQuantity, row, &line)
		line.AmountExclTax = e.numericCell(book, sheet, ColAmountExcl, row, &line)

		items = append(items, line)
	}

	return items
}

// numericCell parses a D/E/H cell, accepting comma or dot decimal
// separators. A nonempty cell that is not a number is recorded on the line
// and yields zero so downstream checks can continue.
func (e *Extractor) numericCell(book *workbook.Book, sheet, column string, row int, line *models.InvoiceLine) decimal.Decimal {
	raw := book.Cell(sheet, column, row)
	if raw == "" {
		return decimal.Zero
	}
	value, err := ParseDecimal(raw)
	if err != nil {
		line.ParseErrors = append(line.ParseErrors, fmt.Sprintf("%s%d", column, row))
		e.log.Debug().
			Str("sheet", sheet).
			Str("cell", fmt.Sprintf("%s%d", column, row)).
			Str("value", raw).
			Msg("Numeric cell unparseable, using zero")
		return decimal.Zero
	}
	return value
}

// ParseDecimal parses a numeric cell accepting comma or dot as the decimal
// separator. Grouping spaces are tolerated.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return decimal.NewFromString(cleaned)
}

// ParseDate parses an A8 cell: a purely digit value is a serial day count
// from the 1899-12-30 epoch, anything else is tried as an ISO-like date with
// either dash or slash separators.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	if isAllDigits(trimmed) {
		days, err := strconv.Atoi(trimmed)
		if err != nil {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, days), true
	}

	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if date, err := time.Parse(layout, trimmed); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
