package handler

import (
	"rekap-kehadiran/internal/report"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{store: st}
}

// GetStats: rekap per kategori untuk ?month=YYYY-MM (default bulan ini).
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	month, ok := monthParam(c, h.store.Location())
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Format bulan harus YYYY-MM"})
	}

	snap := h.store.Snapshot()
	employees, attendance, disciplinary := snap.Counts()

	return c.JSON(fiber.Map{
		"message": "Berhasil mengambil statistik",
		"data": fiber.Map{
			"dashboard":    report.BuildDashboard(snap.Attendance(), month),
			"disciplinary": report.DisciplinaryForMonth(snap.Disciplinary(), month),
			"counts": fiber.Map{
				"employees":    employees,
				"attendance":   attendance,
				"disciplinary": disciplinary,
			},
			"version": snap.Version(),
		},
	})
}
