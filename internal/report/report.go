package report

import (
	"sort"

	"rekap-kehadiran/internal/model"
)

// Placeholder untuk NID/bidang yang kosong pada catatan lama.
const NotAvailable = "N/A"

type Ranked struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	NID        string `json:"nid"`
	Bidang     string `json:"bidang"`
	Count      int    `json:"count"`
}

type Tally struct {
	Total  int      `json:"total"`
	Ranked []Ranked `json:"ranked"`
}

// Aggregate menghitung catatan per karyawan untuk satu bulan dan kategori.
// Grup memakai NID, atau employeeId bila NID kosong. Urutan: jumlah menurun,
// seri mengikuti kemunculan pertama di records.
func Aggregate(records []model.AttendanceRecord, month string, category model.Category) Tally {
	tally := Tally{Ranked: []Ranked{}}
	index := make(map[string]int)

	for _, r := range records {
		if r.MonthYear != month || r.Type != category {
			continue
		}
		tally.Total++

		key := r.EmployeeNID
		if key == "" {
			key = r.EmployeeID
		}
		if i, ok := index[key]; ok {
			tally.Ranked[i].Count++
			continue
		}
		index[key] = len(tally.Ranked)
		tally.Ranked = append(tally.Ranked, Ranked{
			EmployeeID: r.EmployeeID,
			Name:       r.EmployeeName,
			NID:        orNA(r.EmployeeNID),
			Bidang:     orNA(r.EmployeeBidang),
			Count:      1,
		})
	}

	sort.SliceStable(tally.Ranked, func(i, j int) bool {
		return tally.Ranked[i].Count > tally.Ranked[j].Count
	})
	return tally
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

type Column struct {
	Category model.Category `json:"category"`
	Slug     string         `json:"slug"`
	Tally
}

type Dashboard struct {
	Month   string   `json:"month"`
	Columns []Column `json:"columns"`
}

// BuildDashboard menyusun satu kolom per kategori dalam urutan tetap.
func BuildDashboard(records []model.AttendanceRecord, month string) Dashboard {
	d := Dashboard{Month: month}
	for _, c := range model.Categories() {
		d.Columns = append(d.Columns, Column{
			Category: c,
			Slug:     c.Slug(),
			Tally:    Aggregate(records, month, c),
		})
	}
	return d
}

// EmployeeHistory: semua kehadiran satu karyawan, terbaru lebih dulu.
func EmployeeHistory(records []model.AttendanceRecord, employeeID string) []model.AttendanceRecord {
	out := []model.AttendanceRecord{}
	for _, r := range records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// DisciplinaryForMonth: punishmen pada bulan tertentu, tanggal terbaru dulu.
func DisciplinaryForMonth(records []model.DisciplinaryRecord, month string) []model.DisciplinaryRecord {
	out := []model.DisciplinaryRecord{}
	for _, r := range records {
		if r.MonthYear == month {
			out = append(out, r)
		}
	}
	// format YYYY-MM-DD bisa dibandingkan sebagai string
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}
