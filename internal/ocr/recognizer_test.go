package ocr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRecognizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		if string(data) != "png-bytes" || r.FormValue("lang") != "eng+ind" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "  Sakit: Budi\n"})
	}))
	defer srv.Close()

	var progress []int
	text, err := NewHTTPRecognizer(srv.URL, "").Recognize(context.Background(), []byte("png-bytes"), func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, "Sakit: Budi", text)
	assert.Equal(t, []int{0, 100}, progress)
}

func TestHTTPRecognizerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "mesin sibuk"})
	}))
	defer srv.Close()

	_, err := NewHTTPRecognizer(srv.URL, "").Recognize(context.Background(), []byte("x"), nil)
	var rerr *RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, err.Error(), "mesin sibuk")
}

func TestHTTPRecognizerNotConfigured(t *testing.T) {
	_, err := NewHTTPRecognizer("", "").Recognize(context.Background(), []byte("x"), nil)
	var rerr *RecognitionError
	assert.ErrorAs(t, err, &rerr)
}
