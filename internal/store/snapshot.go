package store

import "rekap-kehadiran/internal/model"

// Snapshot adalah tampilan immutable dari ketiga koleksi. Slice di dalamnya
// tidak pernah diubah setelah snapshot dipublikasikan.
type Snapshot struct {
	version      uint64
	employees    []model.Employee
	attendance   []model.AttendanceRecord
	disciplinary []model.DisciplinaryRecord

	employeeIdx     map[string]int
	disciplinaryIdx map[string]int
}

func newSnapshot(version uint64, emps []model.Employee, att []model.AttendanceRecord, disc []model.DisciplinaryRecord) *Snapshot {
	s := &Snapshot{
		version:         version,
		employees:       emps,
		attendance:      att,
		disciplinary:    disc,
		employeeIdx:     make(map[string]int, len(emps)),
		disciplinaryIdx: make(map[string]int, len(disc)),
	}
	for i, e := range emps {
		s.employeeIdx[e.ID] = i
	}
	for i, d := range disc {
		s.disciplinaryIdx[d.ID] = i
	}
	return s
}

func (s *Snapshot) Version() uint64 { return s.version }

// Employees mengembalikan salinan daftar karyawan sesuai urutan masuk.
func (s *Snapshot) Employees() []model.Employee {
	return append([]model.Employee(nil), s.employees...)
}

func (s *Snapshot) Employee(id string) (model.Employee, bool) {
	i, ok := s.employeeIdx[id]
	if !ok {
		return model.Employee{}, false
	}
	return s.employees[i], true
}

func (s *Snapshot) Attendance() []model.AttendanceRecord {
	return append([]model.AttendanceRecord(nil), s.attendance...)
}

func (s *Snapshot) Disciplinary() []model.DisciplinaryRecord {
	return append([]model.DisciplinaryRecord(nil), s.disciplinary...)
}

func (s *Snapshot) DisciplinaryByID(id string) (model.DisciplinaryRecord, bool) {
	i, ok := s.disciplinaryIdx[id]
	if !ok {
		return model.DisciplinaryRecord{}, false
	}
	return s.disciplinary[i], true
}

func (s *Snapshot) Counts() (employees, attendance, disciplinary int) {
	return len(s.employees), len(s.attendance), len(s.disciplinary)
}
