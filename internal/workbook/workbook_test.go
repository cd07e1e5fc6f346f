package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func writeTestBook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "FAC001"))
	require.NoError(t, f.SetCellValue("Sheet1", "A5", "  padded  "))
	require.NoError(t, f.SetCellValue("Sheet1", "B20", 850000))

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkbookUnreadable)
}

func TestOpen_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.xlsx")
	require.NoError(t, writeFile(path, "this is not a zip archive"))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrWorkbookUnreadable)
}

func TestCell_TrimsAndDefaults(t *testing.T) {
	book, err := Open(writeTestBook(t))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Sheet1"}, book.Sheets())
	assert.Equal(t, "FAC001", book.Cell("Sheet1", "A", 3))
	assert.Equal(t, "padded", book.Cell("Sheet1", "A", 5), "whitespace is trimmed")
	assert.Equal(t, "850000", book.Cell("Sheet1", "B", 20), "numeric cells format natively")
	assert.Equal(t, "", book.Cell("Sheet1", "A", 4), "blank cells collapse to empty")
	assert.Equal(t, "", book.Cell("NoSuchSheet", "A", 1), "unknown sheets read as empty")
}

func TestSetCellAndSaveAs(t *testing.T) {
	source := writeTestBook(t)
	book, err := Open(source)
	require.NoError(t, err)
	defer book.Close()

	require.NoError(t, book.SetCell("Sheet1", "A", 6, "1234567A"))

	copyPath := filepath.Join(t.TempDir(), "copy.xlsx")
	require.NoError(t, book.SaveAs(copyPath))

	reopened, err := Open(copyPath)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "1234567A", reopened.Cell("Sheet1", "A", 6))

	// The original file keeps its state.
	original, err := Open(source)
	require.NoError(t, err)
	defer original.Close()
	assert.Equal(t, "", original.Cell("Sheet1", "A", 6))
}

func TestLastRow(t *testing.T) {
	book, err := Open(writeTestBook(t))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, 20, book.LastRow("Sheet1"))
	assert.Equal(t, 0, book.LastRow("NoSuchSheet"))
}
