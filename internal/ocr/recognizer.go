package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Recognizer mengubah gambar menjadi teks. progress menerima 0-100.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, progress func(int)) (string, error)
}

// RecognitionError: mesin OCR tidak tersedia atau gagal. Dilaporkan sekali,
// tanpa retry.
type RecognitionError struct {
	Err error
}

func (e *RecognitionError) Error() string { return "gagal OCR: " + e.Err.Error() }

func (e *RecognitionError) Unwrap() error { return e.Err }

const (
	DefaultLang    = "eng+ind"
	DefaultTimeout = 60 * time.Second
)

// HTTPRecognizer mengirim gambar ke layanan OCR eksternal sebagai multipart
// (field "image" dan "lang") dan mengharapkan balasan JSON {"text": "..."}.
type HTTPRecognizer struct {
	URL     string
	Lang    string
	Timeout time.Duration
}

func NewHTTPRecognizer(url, lang string) *HTTPRecognizer {
	if lang == "" {
		lang = DefaultLang
	}
	return &HTTPRecognizer{URL: url, Lang: lang, Timeout: DefaultTimeout}
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, image []byte, progress func(int)) (string, error) {
	if progress == nil {
		progress = func(int) {}
	}
	if r.URL == "" {
		return "", &RecognitionError{Err: errors.New("OCR_URL belum diatur")}
	}
	if len(image) == 0 {
		return "", &RecognitionError{Err: errors.New("gambar kosong")}
	}
	if err := ctx.Err(); err != nil {
		return "", &RecognitionError{Err: err}
	}

	timeout := r.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}

	progress(0)
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("lang", r.Lang)

	agent := fiber.Post(r.URL)
	agent.Timeout(timeout)
	agent.FileData(&fiber.FormFile{Fieldname: "image", Name: "scan.png", Content: image})
	agent.MultipartForm(args)
	if err := agent.Parse(); err != nil {
		return "", &RecognitionError{Err: err}
	}

	var resp recognizeResponse
	code, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return "", &RecognitionError{Err: errors.Join(errs...)}
	}
	if code != fiber.StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", code)
		}
		return "", &RecognitionError{Err: errors.New(msg)}
	}

	progress(100)
	return strings.TrimSpace(resp.Text), nil
}
