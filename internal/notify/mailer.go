package notify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Recap adalah lampiran rekap bulanan yang dikirim lewat email.
type Recap struct {
	Month    string
	FileName string
	Data     []byte
}

type Mailer interface {
	SendRecap(to []string, recap Recap) error
}

type SMTPMailer struct {
	from string
	send func(msgs ...*gomail.Message) error
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	d := gomail.NewDialer(host, port, user, password)
	if from == "" {
		from = user
	}
	return &SMTPMailer{from: from, send: d.DialAndSend}
}

func (m *SMTPMailer) SendRecap(to []string, recap Recap) error {
	var rcpt []string
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			rcpt = append(rcpt, addr)
		}
	}
	if len(rcpt) == 0 {
		return errors.New("alamat email tujuan kosong")
	}
	if err := m.send(m.recapMessage(rcpt, recap)); err != nil {
		return fmt.Errorf("gagal mengirim email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) recapMessage(to []string, recap Recap) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", "Rekap Kehadiran "+recap.Month)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Terlampir rekap kehadiran dan punishmen bulan %s.\n\nEmail ini dikirim otomatis.", recap.Month))

	data := recap.Data
	msg.Attach(recap.FileName,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {xlsxContentType}}),
	)
	return msg
}
