package handler

import (
	"bytes"
	"log"
	"strings"

	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/notify"
	"rekap-kehadiran/internal/report"
	"rekap-kehadiran/internal/spreadsheet"
	"rekap-kehadiran/internal/store"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	store  *store.Store
	mailer notify.Mailer // nil jika SMTP belum dikonfigurasi
}

func NewReportHandler(st *store.Store, mailer notify.Mailer) *ReportHandler {
	return &ReportHandler{store: st, mailer: mailer}
}

func (h *ReportHandler) buildRecap(month string) (*bytes.Buffer, error) {
	snap := h.store.Snapshot()
	return spreadsheet.WriteRecap(
		report.BuildDashboard(snap.Attendance(), month),
		report.DisciplinaryForMonth(snap.Disciplinary(), month),
	)
}

// Export mengunduh rekap bulanan dalam format xlsx.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	month, ok := monthParam(c, h.store.Location())
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Format bulan harus YYYY-MM"})
	}

	buf, err := h.buildRecap(month)
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Attachment(spreadsheet.RecapFileName(month))
	c.Set(fiber.HeaderContentType, spreadsheet.ContentType)
	return c.Send(buf.Bytes())
}

type EmailRecapRequest struct {
	Month string   `json:"month"`
	To    []string `json:"to"`
}

// Email mengirim rekap bulanan sebagai lampiran xlsx.
func (h *ReportHandler) Email(c *fiber.Ctx) error {
	if h.mailer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "SMTP belum dikonfigurasi"})
	}

	var req EmailRecapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
	}
	var to []string
	for _, addr := range req.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Alamat penerima wajib diisi"})
	}
	if req.Month == "" {
		req.Month, _ = monthParam(c, h.store.Location())
	}
	if !model.ValidMonthYear(req.Month) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Format bulan harus YYYY-MM"})
	}

	buf, err := h.buildRecap(req.Month)
	if err != nil {
		return respondError(c, err, nil)
	}
	recap := notify.Recap{
		Month:    req.Month,
		FileName: spreadsheet.RecapFileName(req.Month),
		Data:     buf.Bytes(),
	}
	if err := h.mailer.SendRecap(to, recap); err != nil {
		log.Printf("[mail] gagal mengirim rekap %s: %v", req.Month, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Gagal mengirim email: " + err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Rekap " + req.Month + " berhasil dikirim"})
}
