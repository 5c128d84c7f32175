package spreadsheet

import (
	"bytes"
	"testing"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadEmployeeRows(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Nama Pegawai", "NID", "Bidang"},
		{" Budi ", "001", "IT"},
		{"Sari", 12345},
		{"Tono"},
		{"", "003", "Umum"},
	})

	rows, err := ReadEmployeeRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.EmployeeFields{Name: "Budi", NID: "001", Bidang: "IT"}, rows[0])
	assert.Equal(t, model.EmployeeFields{Name: "Sari", NID: "12345"}, rows[1])
	assert.Equal(t, "", rows[2].Name)
}

func TestReadEmployeeRowsWithoutHeader(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Budi", "001", "IT"},
	})
	rows, err := ReadEmployeeRows(buf)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadEmployeeRowsRejectsGarbage(t *testing.T) {
	_, err := ReadEmployeeRows(bytes.NewReader([]byte("bukan excel")))
	assert.Error(t, err)
}

func TestEmployeeTemplateRoundTrip(t *testing.T) {
	f, err := EmployeeTemplate()
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadEmployeeRows(buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteRecap(t *testing.T) {
	records := []model.AttendanceRecord{
		{EmployeeID: "e1", EmployeeName: "Budi", EmployeeNID: "001", Type: model.CategorySakit, MonthYear: "2025-10"},
		{EmployeeID: "e1", EmployeeName: "Budi", EmployeeNID: "001", Type: model.CategorySakit, MonthYear: "2025-10"},
	}
	disc := []model.DisciplinaryRecord{
		{EmployeeName: "Sari", Date: "2025-10-03", Action: "SP1", FileName: "sp1.pdf"},
	}

	buf, err := WriteRecap(report.BuildDashboard(records, "2025-10"), disc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Rekap 2025-10", "Punishmen"}, f.GetSheetList())

	name, err := f.GetCellValue("Rekap 2025-10", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Budi", name)
	count, err := f.GetCellValue("Rekap 2025-10", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
	total, err := f.GetCellValue("Rekap 2025-10", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Total Sakit", total)

	action, err := f.GetCellValue("Punishmen", "F2")
	require.NoError(t, err)
	assert.Equal(t, "SP1", action)
}
