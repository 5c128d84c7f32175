package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/repository"

	"github.com/google/uuid"
)

// DefaultMaxAttachmentBytes: lampiran punishmen di atas 2 MiB tidak disimpan.
const DefaultMaxAttachmentBytes = 2 * 1024 * 1024

// Change dikirim ke listener setiap kali snapshot diganti.
type Change struct {
	Version uint64 `json:"version"`
	Reason  string `json:"reason"`
}

type Listener func(Change)

type Options struct {
	// Local selalu dipakai untuk punishmen.
	Local repository.Adapter
	// Remote menyimpan karyawan & kehadiran. Nil berarti mode lokal.
	Remote             repository.Adapter
	Policy             repository.BatchPolicy
	MaxAttachmentBytes int
	Location           *time.Location
}

// Store adalah mirror di memori dari ketiga koleksi. Mutasi diserialkan oleh
// mu; pembaca mengambil Snapshot lewat pointer atomik.
type Store struct {
	local         repository.Adapter
	remote        repository.Adapter
	policy        repository.BatchPolicy
	maxAttachment int
	loc           *time.Location
	now           func() time.Time
	newID         func() string

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]

	lmu       sync.RWMutex
	listeners []Listener
}

func New(opts Options) *Store {
	s := &Store{
		local:         opts.Local,
		remote:        opts.Remote,
		policy:        repository.NewBatchPolicy(opts.Policy.MaxSize),
		maxAttachment: opts.MaxAttachmentBytes,
		loc:           opts.Location,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	if s.remote == nil {
		s.remote = s.local
	}
	if s.maxAttachment <= 0 {
		s.maxAttachment = DefaultMaxAttachmentBytes
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	s.current.Store(newSnapshot(0, nil, nil, nil))
	return s
}

func (s *Store) Snapshot() *Snapshot { return s.current.Load() }

func (s *Store) Location() *time.Location { return s.loc }

// OnChange mendaftarkan listener. Listener dipanggil setelah lock mutasi
// dilepas, jadi boleh memanggil Snapshot maupun mutasi lain.
func (s *Store) OnChange(fn Listener) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

func (s *Store) notify(c Change) {
	s.lmu.RLock()
	ls := append([]Listener(nil), s.listeners...)
	s.lmu.RUnlock()
	for _, fn := range ls {
		fn(c)
	}
}

// mutation adalah isi snapshot berikutnya plus operasi tulis yang harus
// dikirim ke adapter.
type mutation struct {
	employees    []model.Employee
	attendance   []model.AttendanceRecord
	disciplinary []model.DisciplinaryRecord
	remoteOps    []repository.Op
	localOps     []repository.Op
}

func keep(cur *Snapshot) *mutation {
	return &mutation{
		employees:    cur.employees,
		attendance:   cur.attendance,
		disciplinary: cur.disciplinary,
	}
}

// mutate menerbitkan snapshot baru lalu write-through ke adapter. Jika build
// gagal tidak ada yang berubah. Kegagalan adapter tidak me-rollback snapshot.
func (s *Store) mutate(ctx context.Context, reason string, build func(cur *Snapshot) (*mutation, error)) ([]repository.BatchResult, error) {
	s.mu.Lock()
	cur := s.current.Load()
	m, err := build(cur)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next := newSnapshot(cur.version+1, m.employees, m.attendance, m.disciplinary)
	s.current.Store(next)
	results, err := s.persist(ctx, reason, m.remoteOps, m.localOps)
	s.mu.Unlock()

	s.notify(Change{Version: next.version, Reason: reason})
	return results, err
}

func (s *Store) persist(ctx context.Context, reason string, remoteOps, localOps []repository.Op) ([]repository.BatchResult, error) {
	// mode lokal: satu adapter, satu rangkaian batch
	if s.remote == s.local {
		remoteOps = append(remoteOps, localOps...)
		localOps = nil
	}

	var results []repository.BatchResult
	var err error
	if len(remoteOps) > 0 {
		results = s.policy.Run(ctx, remoteOps, s.remote.WriteBatch)
		err = repository.FirstError(results)
	}
	if len(localOps) > 0 {
		if lerr := repository.FirstError(s.policy.Run(ctx, localOps, s.local.WriteBatch)); err == nil {
			err = lerr
		}
	}
	if err != nil {
		log.Printf("[store] %s gagal disimpan: %v", reason, err)
		return results, &PersistenceError{Op: reason, Err: err}
	}
	return results, nil
}

// UpsertEmployee menambah karyawan baru (id kosong) atau mengedit karyawan
// yang ada. Edit menyalin ulang nama/NID/bidang ke semua catatan terkait.
func (s *Store) UpsertEmployee(ctx context.Context, id string, fields model.EmployeeFields) (model.Employee, error) {
	f := fields.Trimmed()
	if err := f.Validate(); err != nil {
		return model.Employee{}, &ValidationError{Msg: err.Error()}
	}

	var emp model.Employee
	_, err := s.mutate(ctx, "employee:upsert", func(cur *Snapshot) (*mutation, error) {
		m := keep(cur)

		if id == "" {
			emp = model.Employee{ID: s.newID(), Name: f.Name, NID: f.NID, Bidang: f.Bidang, CreatedAt: s.now()}
			m.employees = append(cur.Employees(), emp)
			m.remoteOps = []repository.Op{repository.PutEmployeeOp(emp)}
			return m, nil
		}

		old, ok := cur.Employee(id)
		if !ok {
			return nil, fmt.Errorf("karyawan %s: %w", id, ErrNotFound)
		}
		emp = old
		emp.Name, emp.NID, emp.Bidang = f.Name, f.NID, f.Bidang

		m.employees = cur.Employees()
		m.employees[cur.employeeIdx[id]] = emp
		m.remoteOps = []repository.Op{repository.PutEmployeeOp(emp)}

		m.attendance = cur.Attendance()
		for i := range m.attendance {
			if m.attendance[i].EmployeeID == id {
				m.attendance[i].Stamp(emp)
				m.remoteOps = append(m.remoteOps, repository.PutAttendanceOp(m.attendance[i]))
			}
		}
		m.disciplinary = cur.Disciplinary()
		for i := range m.disciplinary {
			if m.disciplinary[i].EmployeeID == id {
				m.disciplinary[i].Stamp(emp)
				m.localOps = append(m.localOps, repository.PutDisciplinaryOp(m.disciplinary[i]))
			}
		}
		return m, nil
	})
	return emp, err
}

// DeleteEmployee menghapus karyawan beserta seluruh catatan kehadiran dan
// punishmen miliknya dalam satu pergantian snapshot.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "employee:delete", func(cur *Snapshot) (*mutation, error) {
		if _, ok := cur.Employee(id); !ok {
			return nil, fmt.Errorf("karyawan %s: %w", id, ErrNotFound)
		}
		m := &mutation{}

		for _, e := range cur.employees {
			if e.ID != id {
				m.employees = append(m.employees, e)
			}
		}
		for _, a := range cur.attendance {
			if a.EmployeeID == id {
				m.remoteOps = append(m.remoteOps, repository.DeleteOp(repository.CollectionAttendance, a.ID))
				continue
			}
			m.attendance = append(m.attendance, a)
		}
		for _, d := range cur.disciplinary {
			if d.EmployeeID == id {
				m.localOps = append(m.localOps, repository.DeleteOp(repository.CollectionDisciplinary, d.ID))
				continue
			}
			m.disciplinary = append(m.disciplinary, d)
		}
		m.remoteOps = append(m.remoteOps, repository.DeleteOp(repository.CollectionEmployees, id))
		return m, nil
	})
	return err
}

type AttendanceInput struct {
	EmployeeID string
	Type       model.Category
	Timestamp  time.Time
}

// AppendAttendance mencatat satu kehadiran. MonthYear dihitung sekali dari
// tanggal lokal timestamp.
func (s *Store) AppendAttendance(ctx context.Context, in AttendanceInput) (model.AttendanceRecord, error) {
	if in.EmployeeID == "" {
		return model.AttendanceRecord{}, invalid("karyawan wajib dipilih")
	}
	if !in.Type.Valid() {
		return model.AttendanceRecord{}, invalid("jenis kehadiran tidak dikenal: %q", in.Type)
	}
	if in.Timestamp.IsZero() {
		return model.AttendanceRecord{}, invalid("tanggal dan waktu wajib diisi")
	}

	var rec model.AttendanceRecord
	_, err := s.mutate(ctx, "attendance:append", func(cur *Snapshot) (*mutation, error) {
		emp, ok := cur.Employee(in.EmployeeID)
		if !ok {
			return nil, invalid("karyawan %s tidak ditemukan", in.EmployeeID)
		}
		ts := in.Timestamp.In(s.loc)
		rec = model.AttendanceRecord{
			ID:        s.newID(),
			Type:      in.Type,
			Timestamp: ts,
			MonthYear: model.MonthYearOf(ts),
			CreatedAt: s.now(),
		}
		rec.Stamp(emp)

		m := keep(cur)
		m.attendance = append(cur.Attendance(), rec)
		m.remoteOps = []repository.Op{repository.PutAttendanceOp(rec)}
		return m, nil
	})
	return rec, err
}

type DisciplinaryInput struct {
	EmployeeID string
	Date       string // YYYY-MM-DD
	Action     string
	Desc       string
	Attachment *model.Attachment
}

type DisciplinaryResult struct {
	Record model.DisciplinaryRecord
	// AttachmentDropped: lampiran melebihi batas sehingga tidak disimpan.
	AttachmentDropped bool
}

func (s *Store) validateDisciplinary(in DisciplinaryInput) (DisciplinaryInput, string, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Action = strings.TrimSpace(in.Action)
	in.Desc = strings.TrimSpace(in.Desc)
	if in.Date == "" || in.EmployeeID == "" || in.Action == "" {
		return in, "", invalid("tanggal, karyawan, dan action wajib diisi")
	}
	monthYear, err := model.MonthYearOfDate(in.Date, s.loc)
	if err != nil {
		return in, "", invalid("%v", err)
	}
	return in, monthYear, nil
}

// encodeAttachment mengubah lampiran menjadi data URL. dropped bernilai true
// jika ukurannya melebihi batas.
func (s *Store) encodeAttachment(a *model.Attachment) (dataURL string, dropped bool) {
	if a == nil || len(a.Data) == 0 {
		return "", false
	}
	if len(a.Data) > s.maxAttachment {
		return "", true
	}
	ct := a.ContentType
	if ct == "" {
		ct = http.DetectContentType(a.Data)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(a.Data), false
}

// AppendDisciplinary mencatat punishmen baru ke penyimpanan lokal. Nama file
// tetap disimpan walau lampirannya terlalu besar.
func (s *Store) AppendDisciplinary(ctx context.Context, in DisciplinaryInput) (DisciplinaryResult, error) {
	in, monthYear, err := s.validateDisciplinary(in)
	if err != nil {
		return DisciplinaryResult{}, err
	}

	var res DisciplinaryResult
	_, err = s.mutate(ctx, "disciplinary:append", func(cur *Snapshot) (*mutation, error) {
		emp, ok := cur.Employee(in.EmployeeID)
		if !ok {
			return nil, invalid("karyawan %s tidak ditemukan", in.EmployeeID)
		}

		rec := model.DisciplinaryRecord{
			ID:        s.newID(),
			Date:      in.Date,
			MonthYear: monthYear,
			Action:    in.Action,
			Desc:      in.Desc,
			CreatedAt: s.now(),
		}
		rec.Stamp(emp)
		if in.Attachment != nil {
			rec.FileName = in.Attachment.FileName
			rec.FileAttachment, res.AttachmentDropped = s.encodeAttachment(in.Attachment)
		}
		res.Record = rec

		m := keep(cur)
		m.disciplinary = append(cur.Disciplinary(), rec)
		m.localOps = []repository.Op{repository.PutDisciplinaryOp(rec)}
		return m, nil
	})
	return res, err
}

// UpdateDisciplinary mengedit punishmen. Tanpa lampiran baru, atau jika
// lampiran baru terlalu besar, lampiran lama dipertahankan.
func (s *Store) UpdateDisciplinary(ctx context.Context, id string, in DisciplinaryInput) (DisciplinaryResult, error) {
	in, monthYear, err := s.validateDisciplinary(in)
	if err != nil {
		return DisciplinaryResult{}, err
	}

	var res DisciplinaryResult
	_, err = s.mutate(ctx, "disciplinary:update", func(cur *Snapshot) (*mutation, error) {
		rec, ok := cur.DisciplinaryByID(id)
		if !ok {
			return nil, fmt.Errorf("punishmen %s: %w", id, ErrNotFound)
		}
		emp, ok := cur.Employee(in.EmployeeID)
		if !ok {
			return nil, invalid("karyawan %s tidak ditemukan", in.EmployeeID)
		}

		rec.Stamp(emp)
		rec.Date, rec.MonthYear = in.Date, monthYear
		rec.Action, rec.Desc = in.Action, in.Desc
		if in.Attachment != nil {
			dataURL, dropped := s.encodeAttachment(in.Attachment)
			if dropped {
				res.AttachmentDropped = true
			} else if dataURL != "" {
				rec.FileName, rec.FileAttachment = in.Attachment.FileName, dataURL
			}
		}
		res.Record = rec

		m := keep(cur)
		m.disciplinary = cur.Disciplinary()
		m.disciplinary[cur.disciplinaryIdx[id]] = rec
		m.localOps = []repository.Op{repository.PutDisciplinaryOp(rec)}
		return m, nil
	})
	return res, err
}

func (s *Store) DeleteDisciplinary(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "disciplinary:delete", func(cur *Snapshot) (*mutation, error) {
		if _, ok := cur.DisciplinaryByID(id); !ok {
			return nil, fmt.Errorf("punishmen %s: %w", id, ErrNotFound)
		}
		m := keep(cur)
		m.disciplinary = nil
		for _, d := range cur.disciplinary {
			if d.ID != id {
				m.disciplinary = append(m.disciplinary, d)
			}
		}
		m.localOps = []repository.Op{repository.DeleteOp(repository.CollectionDisciplinary, id)}
		return m, nil
	})
	return err
}

type ImportResult struct {
	Imported int                      `json:"imported"`
	Skipped  int                      `json:"skipped"`
	Batches  []repository.BatchResult `json:"batches"`
}

// ImportEmployees menambah banyak karyawan sekaligus. Baris tanpa nama atau
// NID dilewati; bidang kosong menjadi "-".
func (s *Store) ImportEmployees(ctx context.Context, rows []model.EmployeeFields) (ImportResult, error) {
	var res ImportResult
	var fresh []model.Employee
	for _, row := range rows {
		f := row.Trimmed()
		if f.Name == "" || f.NID == "" {
			res.Skipped++
			continue
		}
		if f.Bidang == "" {
			f.Bidang = "-"
		}
		fresh = append(fresh, model.Employee{ID: s.newID(), Name: f.Name, NID: f.NID, Bidang: f.Bidang, CreatedAt: s.now()})
	}
	if len(fresh) == 0 {
		return res, invalid("tidak ada baris karyawan yang valid")
	}

	results, err := s.mutate(ctx, "employee:import", func(cur *Snapshot) (*mutation, error) {
		m := keep(cur)
		m.employees = append(cur.Employees(), fresh...)
		for _, e := range fresh {
			m.remoteOps = append(m.remoteOps, repository.PutEmployeeOp(e))
		}
		return m, nil
	})
	res.Imported = len(fresh)
	res.Batches = results
	return res, err
}

type DeleteAllResult struct {
	Employees    int `json:"employees"`
	Attendance   int `json:"attendance"`
	Disciplinary int `json:"disciplinary"`
}

// DeleteAll mengosongkan ketiga koleksi, di memori maupun di adapter.
func (s *Store) DeleteAll(ctx context.Context) (DeleteAllResult, error) {
	var res DeleteAllResult

	s.mu.Lock()
	cur := s.current.Load()
	next := newSnapshot(cur.version+1, nil, nil, nil)
	s.current.Store(next)

	var firstErr error
	wipe := func(a repository.Adapter, c repository.Collection, n *int) {
		count, err := a.DeleteAllInCollection(ctx, c)
		*n = count
		if err != nil {
			log.Printf("[store] gagal menghapus koleksi %s: %v", c, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	wipe(s.remote, repository.CollectionEmployees, &res.Employees)
	wipe(s.remote, repository.CollectionAttendance, &res.Attendance)
	wipe(s.local, repository.CollectionDisciplinary, &res.Disciplinary)
	s.mu.Unlock()

	s.notify(Change{Version: next.version, Reason: "store:delete-all"})
	if firstErr != nil {
		return res, &PersistenceError{Op: "store:delete-all", Err: firstErr}
	}
	return res, nil
}

// Load membaca ulang seluruh koleksi dari adapter. Jika gagal, state lama
// dipertahankan.
func (s *Store) Load(ctx context.Context) error {
	emps, err := s.remote.ListEmployees(ctx)
	if err != nil {
		return &PersistenceError{Op: "store:load", Err: err}
	}
	att, err := s.remote.ListAttendance(ctx)
	if err != nil {
		return &PersistenceError{Op: "store:load", Err: err}
	}
	disc, err := s.local.ListDisciplinary(ctx)
	if err != nil {
		return &PersistenceError{Op: "store:load", Err: err}
	}

	s.mu.Lock()
	next := newSnapshot(s.current.Load().version+1, emps, att, disc)
	s.current.Store(next)
	s.mu.Unlock()

	s.notify(Change{Version: next.version, Reason: "store:load"})
	return nil
}

// ReplaceRemote mengganti koleksi karyawan & kehadiran secara utuh dengan
// snapshot dari langganan. Snapshot terakhir yang diterima yang berlaku.
func (s *Store) ReplaceRemote(c repository.Collections) {
	emps := append([]model.Employee(nil), c.Employees...)
	att := append([]model.AttendanceRecord(nil), c.Attendance...)

	s.mu.Lock()
	cur := s.current.Load()
	next := newSnapshot(cur.version+1, emps, att, cur.disciplinary)
	s.current.Store(next)
	s.mu.Unlock()

	s.notify(Change{Version: next.version, Reason: "store:snapshot"})
}

// Follow menyambungkan store ke langganan adapter cloud sampai ctx selesai.
func (s *Store) Follow(ctx context.Context, sub repository.Subscriber) error {
	return sub.Subscribe(ctx, s.ReplaceRemote)
}

type RestoreResult struct {
	Employees     int `json:"employees"`
	Attendance    int `json:"attendance"`
	Disciplinary  int `json:"disciplinary"`
	FailedBatches int `json:"failedBatches"`
}

// Restore menyalin seluruh isi src (mis. backup JSON lama) dengan id aslinya.
// Data dengan id yang sudah ada ditimpa. Kehadiran dan punishmen yang
// karyawannya tidak ada di hasil akhir dilewati.
func (s *Store) Restore(ctx context.Context, src repository.Source) (RestoreResult, error) {
	var res RestoreResult
	emps, err := src.ListEmployees(ctx)
	if err != nil {
		return res, err
	}
	att, err := src.ListAttendance(ctx)
	if err != nil {
		return res, err
	}
	disc, err := src.ListDisciplinary(ctx)
	if err != nil {
		return res, err
	}

	results, err := s.mutate(ctx, "store:restore", func(cur *Snapshot) (*mutation, error) {
		m := keep(cur)

		m.employees = cur.Employees()
		idx := make(map[string]int, len(m.employees))
		for i, e := range m.employees {
			idx[e.ID] = i
		}
		for _, e := range emps {
			if i, ok := idx[e.ID]; ok {
				m.employees[i] = e
			} else {
				idx[e.ID] = len(m.employees)
				m.employees = append(m.employees, e)
			}
			m.remoteOps = append(m.remoteOps, repository.PutEmployeeOp(e))
			res.Employees++
		}

		m.attendance = cur.Attendance()
		attIdx := make(map[string]int, len(m.attendance))
		for i, a := range m.attendance {
			attIdx[a.ID] = i
		}
		for _, a := range att {
			if _, ok := idx[a.EmployeeID]; !ok {
				continue
			}
			if a.MonthYear == "" {
				a.MonthYear = model.MonthYearOf(a.Timestamp.In(s.loc))
			}
			if i, ok := attIdx[a.ID]; ok {
				m.attendance[i] = a
			} else {
				attIdx[a.ID] = len(m.attendance)
				m.attendance = append(m.attendance, a)
			}
			m.remoteOps = append(m.remoteOps, repository.PutAttendanceOp(a))
			res.Attendance++
		}

		m.disciplinary = cur.Disciplinary()
		for _, d := range disc {
			if _, ok := idx[d.EmployeeID]; !ok {
				continue
			}
			if i, ok := cur.disciplinaryIdx[d.ID]; ok {
				m.disciplinary[i] = d
			} else {
				m.disciplinary = append(m.disciplinary, d)
			}
			m.localOps = append(m.localOps, repository.PutDisciplinaryOp(d))
			res.Disciplinary++
		}
		return m, nil
	})
	for _, r := range results {
		if !r.OK() {
			res.FailedBatches++
		}
	}
	return res, err
}
