package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/notify"
	"rekap-kehadiran/internal/ocr"
	"rekap-kehadiran/internal/realtime"
	"rekap-kehadiran/internal/repository"
	"rekap-kehadiran/internal/spreadsheet"
	"rekap-kehadiran/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var wib = time.FixedZone("WIB", 7*60*60)

func newAdapter(t *testing.T) repository.Adapter {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Employee{}, &model.AttendanceRecord{}, &model.DisciplinaryRecord{}))
	return repository.NewGormAdapter(db, repository.NewBatchPolicy(0))
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(_ context.Context, _ []byte, progress func(int)) (string, error) {
	progress(0)
	if f.err != nil {
		return "", f.err
	}
	progress(100)
	return f.text, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []string
}

func (r *recordedEvents) Broadcast(eventType string, _ interface{}) {
	r.mu.Lock()
	r.events = append(r.events, eventType)
	r.mu.Unlock()
}

type fakeMailer struct {
	to    []string
	recap notify.Recap
}

func (m *fakeMailer) SendRecap(to []string, recap notify.Recap) error {
	m.to, m.recap = to, recap
	return nil
}

type testEnv struct {
	app    *fiber.App
	store  *store.Store
	events *recordedEvents
	mailer *fakeMailer
}

func newEnv(t *testing.T, recognizer ocr.Recognizer) *testEnv {
	t.Helper()
	st := store.New(store.Options{Local: newAdapter(t), Location: wib})
	env := &testEnv{app: fiber.New(), store: st, events: &recordedEvents{}, mailer: &fakeMailer{}}

	emp := NewEmployeeHandler(st)
	env.app.Get("/api/employees", emp.GetAll)
	env.app.Post("/api/employees", emp.Create)
	env.app.Put("/api/employees/:id", emp.Update)
	env.app.Delete("/api/employees/:id", emp.Delete)
	env.app.Get("/api/employees/:id/history", emp.History)
	env.app.Post("/api/employees/import", emp.Import)
	env.app.Delete("/api/employees", emp.DeleteAll)

	att := NewAttendanceHandler(st)
	env.app.Post("/api/attendance/:category", att.Submit)

	dash := NewDashboardHandler(st)
	rep := NewReportHandler(st, env.mailer)
	env.app.Get("/api/dashboard", dash.GetStats)
	env.app.Get("/api/dashboard/export", rep.Export)
	env.app.Post("/api/dashboard/email", rep.Email)

	disc := NewDisciplinaryHandler(st)
	env.app.Get("/api/disciplinary", disc.GetByMonth)
	env.app.Post("/api/disciplinary", disc.Create)
	env.app.Put("/api/disciplinary/:id", disc.Update)
	env.app.Delete("/api/disciplinary/:id", disc.Delete)

	o := NewOCRHandler(st, recognizer, env.events)
	env.app.Post("/api/ocr/parse", o.Parse)
	env.app.Post("/api/ocr/apply", o.Apply)
	env.app.Post("/api/ocr/scan", o.Scan)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (e *testEnv) addEmployee(t *testing.T, name, nid string) model.Employee {
	t.Helper()
	emp, err := e.store.UpsertEmployee(context.Background(), "", model.EmployeeFields{Name: name, NID: nid, Bidang: "Umum"})
	require.NoError(t, err)
	return emp
}

func TestEmployeeCRUD(t *testing.T) {
	env := newEnv(t, nil)

	resp, body := env.do(t, "POST", "/api/employees", model.EmployeeFields{Name: "Andi", NID: "1", Bidang: "IT"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := body["data"].(map[string]interface{})["id"].(string)
	assert.NotEmpty(t, id)

	resp, body = env.do(t, "POST", "/api/employees", model.EmployeeFields{Name: "Tanpa NID"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "wajib diisi")

	resp, _ = env.do(t, "PUT", "/api/employees/"+id, model.EmployeeFields{Name: "Andi P", NID: "1", Bidang: "IT"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, "PUT", "/api/employees/tidak-ada", model.EmployeeFields{Name: "X", NID: "2", Bidang: "IT"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, "GET", "/api/employees", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Andi P", list[0].(map[string]interface{})["name"])

	resp, _ = env.do(t, "DELETE", "/api/employees/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, "DELETE", "/api/employees/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitAttendance(t *testing.T) {
	env := newEnv(t, nil)
	andi := env.addEmployee(t, "Andi", "1")

	resp, body := env.do(t, "POST", "/api/attendance/dinas_luar", AttendanceRequest{
		EmployeeID: andi.ID, Date: "2025-10-18", Time: "11.23",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "DINAS LUAR", data["type"])
	assert.Equal(t, "2025-10", data["monthYear"])
	assert.Equal(t, "1", data["employeeNid"])

	resp, _ = env.do(t, "POST", "/api/attendance/libur", AttendanceRequest{EmployeeID: andi.ID, Date: "2025-10-18", Time: "08:00"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/api/attendance/sakit", AttendanceRequest{EmployeeID: andi.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/api/attendance/sakit", AttendanceRequest{EmployeeID: "hantu", Date: "2025-10-18", Time: "08:00"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, "GET", "/api/employees/"+andi.ID+"/history", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	records := body["data"].(map[string]interface{})["records"].([]interface{})
	assert.Len(t, records, 1)
}

func TestDashboard(t *testing.T) {
	env := newEnv(t, nil)
	andi := env.addEmployee(t, "Andi", "1")
	for i := 0; i < 2; i++ {
		env.do(t, "POST", "/api/attendance/sakit", AttendanceRequest{EmployeeID: andi.ID, Date: "2025-10-18", Time: "08:00"})
	}

	resp, body := env.do(t, "GET", "/api/dashboard?month=2025-10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dashboard := body["data"].(map[string]interface{})["dashboard"].(map[string]interface{})
	columns := dashboard["columns"].([]interface{})
	require.Len(t, columns, len(model.Categories()))
	sakit := columns[0].(map[string]interface{})
	assert.Equal(t, "Sakit", sakit["category"])
	assert.Equal(t, float64(2), sakit["total"])

	resp, _ = env.do(t, "GET", "/api/dashboard?month=oktober", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportAndEmail(t *testing.T) {
	env := newEnv(t, nil)
	env.addEmployee(t, "Andi", "1")

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/dashboard/export?month=2025-10", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, spreadsheet.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "rekap-kehadiran-2025-10.xlsx")

	resp, _ = env.do(t, "POST", "/api/dashboard/email", EmailRecapRequest{Month: "2025-10"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/api/dashboard/email", EmailRecapRequest{Month: "2025-10", To: []string{"kepala@kantor.id"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"kepala@kantor.id"}, env.mailer.to)
	assert.Equal(t, "rekap-kehadiran-2025-10.xlsx", env.mailer.recap.FileName)
	assert.NotEmpty(t, env.mailer.recap.Data)
}

func TestDisciplinaryMultipart(t *testing.T) {
	env := newEnv(t, nil)
	andi := env.addEmployee(t, "Andi", "1")

	req := multipartRequest(t, "POST", "/api/disciplinary", map[string]string{
		"employeeId": andi.ID, "date": "2025-10-02", "action": "SP1", "desc": "terlambat 3x",
	}, "file", "sp1.txt", []byte("surat peringatan"))
	resp, body := env.send(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	id := data["id"].(string)
	assert.Equal(t, "sp1.txt", data["fileName"])
	assert.Contains(t, data["fileAttachment"], "base64,")

	req = multipartRequest(t, "POST", "/api/disciplinary", map[string]string{"employeeId": andi.ID}, "", "", nil)
	resp, _ = env.send(t, req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = multipartRequest(t, "PUT", "/api/disciplinary/"+id, map[string]string{
		"employeeId": andi.ID, "date": "2025-10-03", "action": "SP2",
	}, "", "", nil)
	resp, body = env.send(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "SP2", data["action"])
	assert.Equal(t, "sp1.txt", data["fileName"])

	resp, body = env.do(t, "GET", "/api/disciplinary?month=2025-10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 1)

	resp, _ = env.do(t, "DELETE", "/api/disciplinary/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, "DELETE", "/api/disciplinary/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImportEmployees(t *testing.T) {
	env := newEnv(t, nil)

	f, err := spreadsheet.EmployeeTemplate()
	require.NoError(t, err)
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Andi", "1", "IT"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Budi", "2", ""}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	req := multipartRequest(t, "POST", "/api/employees/import", nil, "file", "karyawan.xlsx", buf.Bytes())
	resp, body := env.send(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["data"].(map[string]interface{})["imported"])

	n, _, _ := env.store.Snapshot().Counts()
	assert.Equal(t, 2, n)

	resp, body = env.do(t, "DELETE", "/api/employees", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["data"].(map[string]interface{})["employees"])
}

func TestOCRParseAndApply(t *testing.T) {
	env := newEnv(t, nil)
	andi := env.addEmployee(t, "Andi Pratama", "1")
	env.addEmployee(t, "Siti Rahma", "2")

	text := "Laporan 18 Oktober 2025\nSakit : Andi\nDL: (siti, bejo)"

	resp, body := env.do(t, "POST", "/api/ocr/parse", ParseRequest{Text: text})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "2025-10-18", data["date"])
	suggestions := data["suggestions"].([]interface{})
	require.Len(t, suggestions, 3)
	first := suggestions[0].(map[string]interface{})
	assert.Equal(t, andi.ID, first["match"].(map[string]interface{})["employeeId"])
	assert.Nil(t, suggestions[2].(map[string]interface{})["match"])

	resp, body = env.do(t, "POST", "/api/ocr/apply", ApplyRequest{Text: text, Time: "07.45"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	summary := body["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["applied"])
	assert.Equal(t, float64(1), summary["skipped"])

	att := env.store.Snapshot().Attendance()
	require.Len(t, att, 2)
	assert.Equal(t, time.Date(2025, 10, 18, 7, 45, 0, 0, wib), att[0].Timestamp.In(wib))

	resp, _ = env.do(t, "POST", "/api/ocr/apply", ApplyRequest{Text: "  "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOCRScan(t *testing.T) {
	env := newEnv(t, nil)
	req := multipartRequest(t, "POST", "/api/ocr/scan", nil, "image", "scan.png", []byte("png"))
	resp, _ := env.send(t, req)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	env = newEnv(t, fakeRecognizer{text: "Cuti: Andi"})
	env.addEmployee(t, "Andi", "1")
	req = multipartRequest(t, "POST", "/api/ocr/scan", nil, "image", "scan.png", []byte("png"))
	resp, body := env.send(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Cuti: Andi", data["text"])
	assert.Len(t, data["groups"].([]interface{}), 1)
	assert.Equal(t, []string{realtime.EventOCRProgress, realtime.EventOCRProgress}, env.events.events)

	env = newEnv(t, fakeRecognizer{err: &ocr.RecognitionError{Err: errors.New("mesin mati")}})
	req = multipartRequest(t, "POST", "/api/ocr/scan", nil, "image", "scan.png", []byte("png"))
	resp, body = env.send(t, req)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "mesin mati")
}

type brokenAdapter struct {
	repository.Adapter
}

func (brokenAdapter) WriteBatch(context.Context, []repository.Op) error {
	return errors.New("disk penuh")
}

func TestPersistenceErrorStillReturnsData(t *testing.T) {
	st := store.New(store.Options{Local: brokenAdapter{newAdapter(t)}, Location: wib})
	app := fiber.New()
	app.Post("/api/employees", NewEmployeeHandler(st).Create)

	raw, _ := json.Marshal(model.EmployeeFields{Name: "Andi", NID: "1", Bidang: "IT"})
	req := httptest.NewRequest("POST", "/api/employees", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Andi", body["data"].(map[string]interface{})["name"])
	assert.Contains(t, body["error"], "disk penuh")

	n, _, _ := st.Snapshot().Counts()
	assert.Equal(t, 1, n)
}
