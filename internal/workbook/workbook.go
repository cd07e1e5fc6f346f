// Package workbook wraps excelize behind the small read/write surface the
// import pipeline needs: sheet enumeration in workbook order and trimmed
// per-cell access by column letter and row number.
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrWorkbookUnreadable is returned when the file cannot be opened as a
// workbook or contains no sheets. It is fatal for the whole run.
var ErrWorkbookUnreadable = errors.New("workbook unreadable")

// Book is an open workbook. The underlying file is only ever written through
// SaveAs; the original path is never mutated.
type Book struct {
	f    *excelize.File
	path string
}

// Open opens a workbook for reading.
func Open(path string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWorkbookUnreadable, path, err)
	}
	if len(f.GetSheetList()) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: no sheets", ErrWorkbookUnreadable, path)
	}
	return &Book{f: f, path: path}, nil
}

// Path returns the path the workbook was opened from.
func (b *Book) Path() string {
	return b.path
}

// Sheets returns sheet names in workbook iteration order.
func (b *Book) Sheets() []string {
	return b.f.GetSheetList()
}

// Cell returns the trimmed, natively formatted value of a cell. Blank cells,
// whitespace-only cells and read failures all collapse to the empty string.
func (b *Book) Cell(sheet, column string, row int) string {
	value, err := b.f.GetCellValue(sheet, fmt.Sprintf("%s%d", column, row))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// SetCell writes a string value into a cell.
func (b *Book) SetCell(sheet, column string, row int, value string) error {
	return b.f.SetCellValue(sheet, fmt.Sprintf("%s%d", column, row), value)
}

// LastRow returns the highest row index carrying any value on the sheet,
// or 0 for an empty sheet.
func (b *Book) LastRow(sheet string) int {
	rows, err := b.f.GetRows(sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// SaveAs writes the workbook, with any pending SetCell edits, to a new path.
func (b *Book) SaveAs(path string) error {
	return b.f.SaveAs(path)
}

// Close releases the underlying file handle.
func (b *Book) Close() error {
	return b.f.Close()
}
