package extractor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Mikaelarth/FNEV4-sub000/internal/workbook"
)

// buildSheet writes one invoice sheet from a cell map and returns the open
// workbook.
func buildSheet(t *testing.T, cells map[string]interface{}) *workbook.Book {
	t.Helper()

	f := excelize.NewFile()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, value))
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	book, err := workbook.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { book.Close() })
	return book
}

func businessInvoiceCells() map[string]interface{} {
	return map[string]interface{}{
		"A3":  "FAC001",
		"A5":  "CLI001",
		"A6":  "1234567A",
		"A8":  "45509",
		"A10": "Abidjan",
		"A11": "ACME SARL",
		"A18": "cash",
		"B20": "P1",
		"C20": "Laptop",
		"D20": 850000,
		"E20": 1,
		"F20": "pcs",
		"G20": "TVA",
		"H20": 850000,
	}
}

func TestExtractSheet_BusinessInvoice(t *testing.T) {
	book := buildSheet(t, businessInvoiceCells())

	record := New().ExtractSheet(book, "Sheet1")

	assert.Equal(t, "FAC001", record.InvoiceNumber)
	assert.Equal(t, "CLI001", record.ClientCode)
	assert.Equal(t, "1234567A", record.ClientTaxNumberHeader)
	assert.Equal(t, "Abidjan", record.PointOfSale)
	assert.Equal(t, "ACME SARL", record.ClientDisplayName)
	assert.Equal(t, "cash", record.PaymentMethod)
	assert.False(t, record.IsWalkIn())
	assert.False(t, record.IsCreditNote())

	require.True(t, record.DateParsed)
	assert.Equal(t, time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), record.InvoiceDate,
		"serial 45509 counts from the 1899-12-30 epoch")

	require.Len(t, record.Items, 1)
	line := record.Items[0]
	assert.Equal(t, 20, line.Row)
	assert.Equal(t, "P1", line.ProductCode)
	assert.Equal(t, "Laptop", line.Description)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(850000)))
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "TVA", line.TaxCode)
	assert.Empty(t, line.ParseErrors)
	assert.True(t, record.TotalExclTax().Equal(decimal.NewFromInt(850000)))
}

func TestExtractSheet_SparseRowsAreHarvested(t *testing.T) {
	cells := businessInvoiceCells()
	// Row 21 has no product code; row 22 must still be picked up.
	cells["C21"] = "orphan description"
	cells["B22"] = "P2"
	cells["C22"] = "Mouse"
	cells["D22"] = 5000
	cells["E22"] = 2
	cells["G22"] = "TVAB"
	cells["H22"] = 10000

	record := New().ExtractSheet(buildSheet(t, cells), "Sheet1")

	require.Len(t, record.Items, 2)
	assert.Equal(t, 20, record.Items[0].Row)
	assert.Equal(t, 22, record.Items[1].Row)
	assert.True(t, record.TotalExclTax().Equal(decimal.NewFromInt(860000)))
}

func TestExtractSheet_NumericParseErrorZeroesField(t *testing.T) {
	cells := businessInvoiceCells()
	cells["D20"] = "abc"

	record := New().ExtractSheet(buildSheet(t, cells), "Sheet1")

	require.Len(t, record.Items, 1)
	line := record.Items[0]
	assert.Equal(t, []string{"D20"}, line.ParseErrors)
	assert.True(t, line.UnitPrice.IsZero(), "offending field is zeroed so checks continue")
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)), "other fields are untouched")
}

func TestExtractSheet_WalkInHeader(t *testing.T) {
	cells := map[string]interface{}{
		"A3":  "FAC002",
		"A5":  "1999",
		"A8":  "45510",
		"A13": "Jean Kouame",
		"A18": "cash",
		"B20": "P2",
		"C20": "Fuel",
		"D20": 650,
		"E20": 50,
		"G20": "TVA",
		"H20": 32500,
	}
	record := New().ExtractSheet(buildSheet(t, cells), "Sheet1")

	assert.True(t, record.IsWalkIn())
	assert.Equal(t, "Jean Kouame", record.WalkInRealName)
	assert.Empty(t, record.WalkInTaxNumber)
	assert.Equal(t, time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC), record.InvoiceDate)
}

func TestExtractSheet_CreditNoteReference(t *testing.T) {
	cells := businessInvoiceCells()
	cells["A17"] = "FAC000"
	cells["D20"] = -850000
	cells["H20"] = -850000

	record := New().ExtractSheet(buildSheet(t, cells), "Sheet1")

	assert.True(t, record.IsCreditNote())
	assert.True(t, record.Items[0].UnitPrice.IsNegative())
}

func TestExtractSheet_Purity(t *testing.T) {
	book := buildSheet(t, businessInvoiceCells())
	ext := New()

	first := ext.ExtractSheet(book, "Sheet1")
	second := ext.ExtractSheet(book, "Sheet1")

	assert.Equal(t, first, second, "extraction carries no state across runs")
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"45509", time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)},
		{"1", time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025/03/01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.raw)
		require.True(t, ok, "date %q must parse", tc.raw)
		assert.Equal(t, tc.want, got, "date %q", tc.raw)
	}

	for _, raw := range []string{"", "yesterday", "03/01/50", "2025-13-40"} {
		_, ok := ParseDate(raw)
		assert.False(t, ok, "date %q must not parse", raw)
	}
}

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"850000":    "850000",
		"1234,56":   "1234.56",
		"1234.56":   "1234.56",
		"-650":      "-650",
		"1 234,50":  "1234.5",
	}
	for raw, want := range cases {
		got, err := ParseDecimal(raw)
		require.NoError(t, err, "value %q", raw)
		expected, err := decimal.NewFromString(want)
		require.NoError(t, err)
		assert.True(t, got.Equal(expected), "value %q parsed to %s", raw, got)
	}

	_, err := ParseDecimal("abc")
	assert.Error(t, err)
}
