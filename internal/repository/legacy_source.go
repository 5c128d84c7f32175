package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rekap-kehadiran/internal/model"

	"github.com/google/uuid"
)

// legacyBackup adalah bentuk file cadangan dari aplikasi versi browser:
// tiga array dengan kunci camelCase.
type legacyBackup struct {
	Employees         []legacyEmployee     `json:"employees"`
	AttendanceRecords []legacyAttendance   `json:"attendanceRecords"`
	PunishmentRecords []legacyDisciplinary `json:"punishmentRecords"`
}

type legacyEmployee struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	NID       json.RawMessage `json:"nid"`
	Bidang    string          `json:"bidang"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

type legacyAttendance struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	EmployeeName   string          `json:"employeeName"`
	EmployeeNID    json.RawMessage `json:"employeeNid"`
	EmployeeBidang string          `json:"employeeBidang"`
	Type           string          `json:"type"`
	Timestamp      json.RawMessage `json:"timestamp"`
	MonthYear      string          `json:"monthYear"`
	CreatedAt      json.RawMessage `json:"createdAt"`
}

type legacyDisciplinary struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	EmployeeName   string          `json:"employeeName"`
	EmployeeNID    json.RawMessage `json:"employeeNid"`
	EmployeeBidang string          `json:"employeeBidang"`
	Date           string          `json:"date"`
	MonthYear      string          `json:"monthYear"`
	Action         string          `json:"action"`
	Desc           string          `json:"desc"`
	FileName       string          `json:"fileName"`
	FileDataURL    string          `json:"fileDataUrl"`
	FileAttachment string          `json:"fileAttachment"`
	CreatedAt      json.RawMessage `json:"createdAt"`
}

// legacySource adalah Source baca-saja di atas cadangan JSON lama.
type legacySource struct {
	employees    []model.Employee
	attendance   []model.AttendanceRecord
	disciplinary []model.DisciplinaryRecord
}

// NewLegacySource membaca seluruh cadangan dari r. Baris tanpa id diberi UUID
// baru; baris yang tetap tidak valid dibuang saat List.
func NewLegacySource(r io.Reader) (Source, error) {
	var raw legacyBackup
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("format cadangan tidak valid: %w", err)
	}

	src := &legacySource{}
	for _, e := range raw.Employees {
		src.employees = append(src.employees, model.Employee{
			ID:        idOrNew(e.ID),
			Name:      strings.TrimSpace(e.Name),
			NID:       jsonString(e.NID),
			Bidang:    strings.TrimSpace(e.Bidang),
			CreatedAt: TimeFromJSON(e.CreatedAt),
		})
	}
	for _, a := range raw.AttendanceRecords {
		rec := model.AttendanceRecord{
			ID:             idOrNew(a.ID),
			EmployeeID:     a.EmployeeID,
			EmployeeName:   a.EmployeeName,
			EmployeeNID:    jsonString(a.EmployeeNID),
			EmployeeBidang: a.EmployeeBidang,
			Type:           model.Category(a.Type),
			Timestamp:      TimeFromJSON(a.Timestamp),
			MonthYear:      a.MonthYear,
			CreatedAt:      TimeFromJSON(a.CreatedAt),
		}
		if rec.MonthYear == "" && !rec.Timestamp.IsZero() {
			rec.MonthYear = model.MonthYearOf(rec.Timestamp)
		}
		src.attendance = append(src.attendance, rec)
	}
	for _, p := range raw.PunishmentRecords {
		// versi awal menyimpan lampiran di fileDataUrl
		if p.FileAttachment == "" {
			p.FileAttachment = p.FileDataURL
		}
		src.disciplinary = append(src.disciplinary, model.DisciplinaryRecord{
			ID:             idOrNew(p.ID),
			EmployeeID:     p.EmployeeID,
			EmployeeName:   p.EmployeeName,
			EmployeeNID:    jsonString(p.EmployeeNID),
			EmployeeBidang: p.EmployeeBidang,
			Date:           p.Date,
			MonthYear:      p.MonthYear,
			Action:         p.Action,
			Desc:           p.Desc,
			FileName:       p.FileName,
			FileAttachment: p.FileAttachment,
			CreatedAt:      TimeFromJSON(p.CreatedAt),
		})
	}
	return src, nil
}

func (s *legacySource) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	list := append([]model.Employee(nil), s.employees...)
	return keepValid(list, model.Employee.Validate, "karyawan"), nil
}

func (s *legacySource) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	list := append([]model.AttendanceRecord(nil), s.attendance...)
	return keepValid(list, model.AttendanceRecord.Validate, "kehadiran"), nil
}

func (s *legacySource) ListDisciplinary(ctx context.Context) ([]model.DisciplinaryRecord, error) {
	list := append([]model.DisciplinaryRecord(nil), s.disciplinary...)
	return keepValid(list, model.DisciplinaryRecord.Validate, "punishmen"), nil
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// jsonString menerima string atau angka (NID hasil import Excel).
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
