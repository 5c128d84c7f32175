package handler

import (
	"net/url"
	"time"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	store *store.Store
}

func NewAttendanceHandler(st *store.Store) *AttendanceHandler {
	return &AttendanceHandler{store: st}
}

type AttendanceRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
}

// Submit mencatat kehadiran untuk kategori di path (label atau slug).
func (h *AttendanceHandler) Submit(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		raw = c.Params("category")
	}
	category, ok := model.ParseCategory(raw)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kategori kehadiran tidak dikenal"})
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}
	if req.EmployeeID == "" || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Karyawan, tanggal, dan waktu wajib diisi"})
	}

	ts, err := model.ComposeTimestamp(req.Date, req.Time, h.store.Location())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.store.AppendAttendance(c.UserContext(), store.AttendanceInput{
		EmployeeID: req.EmployeeID,
		Type:       category,
		Timestamp:  ts,
	})
	if err != nil {
		return respondError(c, err, rec)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Data " + string(category) + " berhasil disimpan",
		"data":    rec,
	})
}

// Categories mengembalikan daftar kategori beserta slug-nya untuk dropdown.
func (h *AttendanceHandler) Categories(c *fiber.Ctx) error {
	var list []fiber.Map
	for _, k := range model.Categories() {
		list = append(list, fiber.Map{"label": k, "slug": k.Slug()})
	}
	return c.JSON(fiber.Map{
		"message": "Berhasil mengambil kategori",
		"data":    list,
		"today":   time.Now().In(h.store.Location()).Format(model.DateLayout),
	})
}
