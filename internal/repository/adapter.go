package repository

import (
	"context"
	"errors"

	"rekap-kehadiran/internal/model"
)

// Collection adalah nama koleksi/tabel di backend.
type Collection string

const (
	CollectionEmployees    Collection = "employees"
	CollectionAttendance   Collection = "attendance_records"
	CollectionDisciplinary Collection = "disciplinary_records"
)

var (
	// ErrLocalOnly dikembalikan adapter cloud untuk operasi punishmen.
	ErrLocalOnly = errors.New("punishmen hanya disimpan di penyimpanan lokal")
	// ErrUnknownCollection untuk nama koleksi di luar tiga koleksi di atas.
	ErrUnknownCollection = errors.New("koleksi tidak dikenal")
)

// Source adalah sisi baca dari backend penyimpanan.
type Source interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error)
	ListDisciplinary(ctx context.Context) ([]model.DisciplinaryRecord, error)
}

// Adapter adalah kontrak penyimpanan yang dipakai Domain Store.
// Put bersifat upsert berdasarkan id.
type Adapter interface {
	Source

	PutEmployee(ctx context.Context, e model.Employee) error
	PutAttendance(ctx context.Context, r model.AttendanceRecord) error
	PutDisciplinary(ctx context.Context, r model.DisciplinaryRecord) error

	DeleteEmployee(ctx context.Context, id string) error
	DeleteAttendance(ctx context.Context, id string) error
	DeleteDisciplinary(ctx context.Context, id string) error

	// WriteBatch menjalankan ops sebagai satu unit (transaksi / bulk write).
	WriteBatch(ctx context.Context, ops []Op) error
	// DeleteAllInCollection menghapus seluruh isi koleksi per batch dan
	// mengembalikan jumlah yang terhapus.
	DeleteAllInCollection(ctx context.Context, c Collection) (int, error)
}

// Collections adalah isi lengkap koleksi remote pada satu waktu.
type Collections struct {
	Employees  []model.Employee
	Attendance []model.AttendanceRecord
}

// Subscriber diimplementasikan adapter yang bisa mendorong snapshot
// (mode cloud). Subscribe memblok sampai ctx selesai atau stream gagal.
type Subscriber interface {
	Subscribe(ctx context.Context, onSnapshot func(Collections)) error
}

type OpKind int

const (
	OpPut OpKind = iota
	OpDelete
)

// Op adalah satu operasi tulis dalam batch. Untuk OpPut, tepat satu dari
// Employee/Attendance/Disciplinary terisi sesuai Collection.
type Op struct {
	Kind         OpKind
	Collection   Collection
	ID           string
	Employee     *model.Employee
	Attendance   *model.AttendanceRecord
	Disciplinary *model.DisciplinaryRecord
}

func PutEmployeeOp(e model.Employee) Op {
	return Op{Kind: OpPut, Collection: CollectionEmployees, ID: e.ID, Employee: &e}
}

func PutAttendanceOp(r model.AttendanceRecord) Op {
	return Op{Kind: OpPut, Collection: CollectionAttendance, ID: r.ID, Attendance: &r}
}

func PutDisciplinaryOp(r model.DisciplinaryRecord) Op {
	return Op{Kind: OpPut, Collection: CollectionDisciplinary, ID: r.ID, Disciplinary: &r}
}

func DeleteOp(c Collection, id string) Op {
	return Op{Kind: OpDelete, Collection: c, ID: id}
}

// validate memeriksa bentuk op sebelum dikirim ke backend.
func (o Op) validate() error {
	if o.ID == "" {
		return errors.New("op tanpa id")
	}
	if o.Kind == OpDelete {
		return nil
	}
	switch o.Collection {
	case CollectionEmployees:
		if o.Employee == nil {
			return errors.New("op employee tanpa data")
		}
		return o.Employee.Validate()
	case CollectionAttendance:
		if o.Attendance == nil {
			return errors.New("op kehadiran tanpa data")
		}
		return o.Attendance.Validate()
	case CollectionDisciplinary:
		if o.Disciplinary == nil {
			return errors.New("op punishmen tanpa data")
		}
		return o.Disciplinary.Validate()
	}
	return ErrUnknownCollection
}
