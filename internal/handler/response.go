package handler

import (
	"errors"
	"log"
	"time"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/ocr"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

// respondError memetakan error domain ke status HTTP. Untuk PersistenceError
// data di memori sudah berubah, jadi data tetap dikirim bersama pesannya.
func respondError(c *fiber.Ctx, err error, data interface{}) error {
	var verr *store.ValidationError
	var perr *store.PersistenceError
	var rerr *ocr.RecognitionError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Msg})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &perr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Data tersimpan di memori tetapi gagal ditulis ke penyimpanan: " + perr.Err.Error(),
			"data":  data,
		})
	case errors.As(err, &rerr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": rerr.Error()})
	}

	log.Printf("[api] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Terjadi kesalahan pada server"})
}

// monthParam membaca ?month=YYYY-MM, default bulan berjalan.
func monthParam(c *fiber.Ctx, loc *time.Location) (string, bool) {
	month := c.Query("month")
	if month == "" {
		return model.MonthYearOf(time.Now().In(loc)), true
	}
	return month, model.ValidMonthYear(month)
}
