package handler

import (
	"io"
	"path/filepath"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/report"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

type DisciplinaryHandler struct {
	store *store.Store
}

func NewDisciplinaryHandler(st *store.Store) *DisciplinaryHandler {
	return &DisciplinaryHandler{store: st}
}

func (h *DisciplinaryHandler) GetByMonth(c *fiber.Ctx) error {
	month, ok := monthParam(c, h.store.Location())
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Format bulan harus YYYY-MM"})
	}
	return c.JSON(fiber.Map{
		"message": "Berhasil mengambil data punishmen",
		"data":    report.DisciplinaryForMonth(h.store.Snapshot().Disciplinary(), month),
	})
}

// readInput membaca form multipart: employeeId, date, action, desc, file.
func readInput(c *fiber.Ctx) (store.DisciplinaryInput, error) {
	in := store.DisciplinaryInput{
		EmployeeID: c.FormValue("employeeId"),
		Date:       c.FormValue("date"),
		Action:     c.FormValue("action"),
		Desc:       c.FormValue("desc"),
	}

	// Lampiran opsional
	file, err := c.FormFile("file")
	if err != nil {
		return in, nil
	}
	f, err := file.Open()
	if err != nil {
		return in, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return in, err
	}
	in.Attachment = &model.Attachment{
		FileName:    filepath.Base(file.Filename),
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}
	return in, nil
}

func disciplinaryMessage(ok string, res store.DisciplinaryResult) string {
	if res.AttachmentDropped {
		return ok + ", tetapi lampiran terlalu besar dan tidak disimpan"
	}
	return ok
}

func (h *DisciplinaryHandler) Create(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lampiran tidak bisa dibaca"})
	}

	res, err := h.store.AppendDisciplinary(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, res.Record)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": disciplinaryMessage("Punishmen berhasil disimpan", res),
		"data":    res.Record,
	})
}

func (h *DisciplinaryHandler) Update(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Lampiran tidak bisa dibaca"})
	}

	res, err := h.store.UpdateDisciplinary(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, res.Record)
	}
	return c.JSON(fiber.Map{
		"message": disciplinaryMessage("Punishmen berhasil diperbarui", res),
		"data":    res.Record,
	})
}

func (h *DisciplinaryHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteDisciplinary(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Punishmen berhasil dihapus"})
}
