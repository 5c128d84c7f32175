package spreadsheet

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"rekap-kehadiran/internal/model"

	"github.com/xuri/excelize/v2"
)

var headerRx = regexp.MustCompile(`(?i)nama`)

// ReadEmployeeRows membaca sheet pertama dengan kolom Nama, NID, Bidang.
// Baris dengan kurang dari dua sel dilewati, begitu juga baris judul
// (baris pertama yang sel pertamanya mengandung "nama").
func ReadEmployeeRows(r io.Reader) ([]model.EmployeeFields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file excel tidak valid: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file excel tidak memiliki sheet")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("gagal membaca sheet %s: %w", sheets[0], err)
	}

	var out []model.EmployeeFields
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if i == 0 && headerRx.MatchString(row[0]) {
			continue
		}
		fields := model.EmployeeFields{Name: row[0], NID: row[1]}
		if len(row) > 2 {
			fields.Bidang = row[2]
		}
		out = append(out, fields.Trimmed())
	}
	return out, nil
}

// EmployeeTemplate adalah workbook kosong berisi baris judul untuk import.
func EmployeeTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, h := range []string{"Nama", "NID", "Bidang"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func cleanSheetName(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "", "]", "", ":", "").Replace(s)
}
