package handler

import (
	"bytes"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/report"
	"rekap-kehadiran/internal/spreadsheet"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	store *store.Store
}

func NewEmployeeHandler(st *store.Store) *EmployeeHandler {
	return &EmployeeHandler{store: st}
}

func (h *EmployeeHandler) GetAll(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Berhasil mengambil data karyawan",
		"data":    h.store.Snapshot().Employees(),
	})
}

func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req model.EmployeeFields
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}

	emp, err := h.store.UpsertEmployee(c.UserContext(), "", req)
	if err != nil {
		return respondError(c, err, emp)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Karyawan berhasil ditambahkan",
		"data":    emp,
	})
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var req model.EmployeeFields
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}

	emp, err := h.store.UpsertEmployee(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, emp)
	}
	return c.JSON(fiber.Map{
		"message": "Data karyawan berhasil diperbarui",
		"data":    emp,
	})
}

func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Karyawan dan seluruh catatannya berhasil dihapus"})
}

// History: riwayat kehadiran seorang karyawan, terbaru di atas.
func (h *EmployeeHandler) History(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	id := c.Params("id")
	emp, ok := snap.Employee(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Karyawan tidak ditemukan"})
	}

	return c.JSON(fiber.Map{
		"message": "Berhasil mengambil riwayat kehadiran",
		"data": fiber.Map{
			"employee": emp,
			"records":  report.EmployeeHistory(snap.Attendance(), id),
		},
	})
}

// Import membaca file xlsx (kolom: nama, NID, bidang) dari field "file".
func (h *EmployeeHandler) Import(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File xlsx wajib diunggah"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File tidak bisa dibaca"})
	}
	defer f.Close()

	rows, err := spreadsheet.ReadEmployeeRows(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.store.ImportEmployees(c.UserContext(), rows)
	if err != nil {
		return respondError(c, err, res)
	}
	return c.JSON(fiber.Map{
		"message": "Import karyawan selesai",
		"data":    res,
	})
}

// Template mengunduh contoh file import.
func (h *EmployeeHandler) Template(c *fiber.Ctx) error {
	f, err := spreadsheet.EmployeeTemplate()
	if err != nil {
		return respondError(c, err, nil)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return respondError(c, err, nil)
	}
	c.Attachment("template_karyawan.xlsx")
	c.Set(fiber.HeaderContentType, spreadsheet.ContentType)
	return c.Send(buf.Bytes())
}

// DeleteAll mengosongkan karyawan, kehadiran, dan punishmen.
func (h *EmployeeHandler) DeleteAll(c *fiber.Ctx) error {
	res, err := h.store.DeleteAll(c.UserContext())
	if err != nil {
		return respondError(c, err, res)
	}
	return c.JSON(fiber.Map{
		"message": "Semua data berhasil dihapus",
		"data":    res,
	})
}
