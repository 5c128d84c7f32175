package handler

import (
	"context"
	"io"
	"strings"
	"time"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/ocr"
	"rekap-kehadiran/internal/realtime"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

// Broadcaster dipenuhi oleh *realtime.Hub.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

type OCRHandler struct {
	store      *store.Store
	recognizer ocr.Recognizer // nil jika OCR_URL kosong
	events     Broadcaster
}

func NewOCRHandler(st *store.Store, recognizer ocr.Recognizer, events Broadcaster) *OCRHandler {
	return &OCRHandler{store: st, recognizer: recognizer, events: events}
}

type ParseRequest struct {
	Text string `json:"text"`
}

// Suggestion adalah satu nama hasil parsing beserta kandidat karyawannya.
type Suggestion struct {
	Category model.Category `json:"category"`
	Name     string         `json:"name"`
	Match    *ocr.Match     `json:"match"`
}

type ParseResult struct {
	Date        string       `json:"date,omitempty"`
	Groups      []ocr.Group  `json:"groups"`
	Suggestions []Suggestion `json:"suggestions"`
}

func (h *OCRHandler) analyze(text string) ParseResult {
	res := ParseResult{Groups: ocr.Parse(text), Suggestions: []Suggestion{}}
	if res.Groups == nil {
		res.Groups = []ocr.Group{}
	}
	res.Date, _ = ocr.ExtractDate(text)

	resolver := ocr.NewResolver(h.store.Snapshot().Employees())
	for _, g := range res.Groups {
		for _, name := range g.Names {
			s := Suggestion{Category: g.Category, Name: name}
			if m, ok := resolver.Best(name); ok {
				s.Match = &m
			}
			res.Suggestions = append(res.Suggestions, s)
		}
	}
	return res
}

// Parse hanya membaca teks dan menampilkan kecocokan untuk dikonfirmasi.
func (h *OCRHandler) Parse(c *fiber.Ctx) error {
	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}
	return c.JSON(fiber.Map{
		"message": "Teks berhasil dibaca",
		"data":    h.analyze(req.Text),
	})
}

type ApplyRequest struct {
	Text string `json:"text"`
	Date string `json:"date"` // kosong: tanggal di laporan, lalu hari ini
	Time string `json:"time"` // kosong: jam sekarang
}

// Apply menyimpan setiap nama yang cocok sebagai catatan kehadiran.
func (h *OCRHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Teks laporan kosong"})
	}

	loc := h.store.Location()
	now := time.Now().In(loc)
	date := strings.TrimSpace(req.Date)
	if date == "" {
		if d, ok := ocr.ExtractDate(req.Text); ok {
			date = d
		} else {
			date = now.Format(model.DateLayout)
		}
	}
	clock := strings.TrimSpace(req.Time)
	if clock == "" {
		clock = now.Format("15:04")
	}
	ts, err := model.ComposeTimestamp(date, clock, loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// submit yang sudah dikirim tetap jalan walau klien memutus request
	ctx := context.WithoutCancel(c.UserContext())
	resolver := ocr.NewResolver(h.store.Snapshot().Employees())
	summary := ocr.Reconcile(ctx, ocr.Parse(req.Text), resolver, func(ctx context.Context, category model.Category, employeeID string) error {
		_, err := h.store.AppendAttendance(ctx, store.AttendanceInput{
			EmployeeID: employeeID,
			Type:       category,
			Timestamp:  ts,
		})
		return err
	})

	return c.JSON(fiber.Map{
		"message": "Rekonsiliasi selesai",
		"data": fiber.Map{
			"date":    date,
			"time":    clock,
			"summary": summary,
		},
	})
}

// Scan menjalankan OCR atas gambar (field "image") lalu mem-parsing hasilnya.
func (h *OCRHandler) Scan(c *fiber.Ctx) error {
	if h.recognizer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Layanan OCR belum dikonfigurasi"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Gambar wajib diunggah"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Gambar tidak bisa dibaca"})
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Gambar tidak bisa dibaca"})
	}

	text, err := h.recognizer.Recognize(c.UserContext(), image, func(percent int) {
		if h.events != nil {
			h.events.Broadcast(realtime.EventOCRProgress, fiber.Map{"percent": percent})
		}
	})
	if err != nil {
		return respondError(c, err, nil)
	}

	res := h.analyze(text)
	return c.JSON(fiber.Map{
		"message": "Gambar berhasil dibaca",
		"data": fiber.Map{
			"text":        text,
			"date":        res.Date,
			"groups":      res.Groups,
			"suggestions": res.Suggestions,
		},
	})
}
