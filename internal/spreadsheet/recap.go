package spreadsheet

import (
	"bytes"
	"fmt"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/report"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecapFileName: "rekap-kehadiran-2025-10.xlsx".
func RecapFileName(month string) string {
	return fmt.Sprintf("rekap-kehadiran-%s.xlsx", month)
}

// WriteRecap menulis dashboard bulanan ke sheet "Rekap" dan daftar punishmen
// bulan yang sama ke sheet "Punishmen".
func WriteRecap(d report.Dashboard, disciplinary []model.DisciplinaryRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	recap := cleanSheetName("Rekap " + d.Month)
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), recap); err != nil {
		return nil, err
	}

	headers := []string{"Kategori", "No", "Nama", "NID", "Bidang", "Jumlah"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(recap, cell, h)
	}

	row := 2
	for _, col := range d.Columns {
		for i, r := range col.Ranked {
			_ = f.SetCellValue(recap, fmt.Sprintf("A%d", row), string(col.Category))
			_ = f.SetCellValue(recap, fmt.Sprintf("B%d", row), i+1)
			_ = f.SetCellValue(recap, fmt.Sprintf("C%d", row), r.Name)
			_ = f.SetCellValue(recap, fmt.Sprintf("D%d", row), r.NID)
			_ = f.SetCellValue(recap, fmt.Sprintf("E%d", row), r.Bidang)
			_ = f.SetCellValue(recap, fmt.Sprintf("F%d", row), r.Count)
			row++
		}
		_ = f.SetCellValue(recap, fmt.Sprintf("A%d", row), "Total "+string(col.Category))
		_ = f.SetCellValue(recap, fmt.Sprintf("F%d", row), col.Total)
		row += 2
	}

	const pun = "Punishmen"
	if _, err := f.NewSheet(pun); err != nil {
		return nil, err
	}
	for i, h := range []string{"No", "Tanggal", "Nama", "NID", "Bidang", "Action", "Keterangan", "File"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(pun, cell, h)
	}
	for i, p := range disciplinary {
		r := i + 2
		_ = f.SetCellValue(pun, fmt.Sprintf("A%d", r), i+1)
		_ = f.SetCellValue(pun, fmt.Sprintf("B%d", r), p.Date)
		_ = f.SetCellValue(pun, fmt.Sprintf("C%d", r), p.EmployeeName)
		_ = f.SetCellValue(pun, fmt.Sprintf("D%d", r), p.EmployeeNID)
		_ = f.SetCellValue(pun, fmt.Sprintf("E%d", r), p.EmployeeBidang)
		_ = f.SetCellValue(pun, fmt.Sprintf("F%d", r), p.Action)
		_ = f.SetCellValue(pun, fmt.Sprintf("G%d", r), p.Desc)
		_ = f.SetCellValue(pun, fmt.Sprintf("H%d", r), p.FileName)
	}

	return f.WriteToBuffer()
}
