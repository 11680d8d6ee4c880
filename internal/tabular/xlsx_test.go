package tabular

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// createTestXLSX writes sheets in the given order to a temp file.
func createTestXLSX(t *testing.T, names []string, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range names {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range sheets[name] {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	path := createTestXLSX(t, []string{"Talepler", "Notlar"}, map[string][][]string{
		"Talepler": {
			{"Proje", "Talep No"},
			{" Ülker ", "R1"},
		},
		"Notlar": {{"x"}},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Proje", "Talep No"}, rows[0])
	assert.Equal(t, []string{"Ülker", "R1"}, rows[1])
}

func TestReadXLSX_SheetName(t *testing.T) {
	path := createTestXLSX(t, []string{"First", "Second"}, map[string][][]string{
		"First":  {{"a", "b"}},
		"Second": {{"x", "y"}, {"1", "2"}},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Second"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2"}, rows[1])
}

func TestReadXLSX_SheetNameNotFound(t *testing.T) {
	path := createTestXLSX(t, []string{"Sheet1"}, map[string][][]string{"Sheet1": {{"a"}}})

	_, err := ReadXLSX(path, XLSXOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSX_SheetIndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, []string{"Sheet1"}, map[string][][]string{"Sheet1": {{"a"}}})

	_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open file")
}

func TestReadXLSX_DateCells(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Seferler")
	require.NoError(t, err)

	header := sheet.AddRow()
	header.AddCell().SetString("Sefer No")
	header.AddCell().SetString("Sefer Açılış")
	header.AddCell().SetString("Yükleme Tarihi")
	header.AddCell().SetString("Adet")

	row := sheet.AddRow()
	row.AddCell().SetString("SFR100")
	row.AddCell().SetDateTime(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	row.AddCell().SetDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	row.AddCell().SetInt(12)

	path := filepath.Join(t.TempDir(), "dates.xlsx")
	require.NoError(t, f.Save(path))

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"SFR100", "2024-01-10T08:00:00", "2024-01-10T00:00:00", "12"}, rows[1])
}
