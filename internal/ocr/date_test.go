package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	cases := map[string]string{
		"Laporan tgl 18/10/2025":             "2025-10-18",
		"Tanggal: 3-9-2025":                  "2025-09-03",
		"Senin, 18 Oktober 2025":             "2025-10-18",
		"Rabu 1 Okt. 2025":                   "2025-10-01",
		"5 AGT 2024":                         "2024-08-05",
		"Apel 12 pagi 2025, 7 Desember 2025": "2025-12-07",
	}
	for text, want := range cases {
		got, ok := ExtractDate(text)
		assert.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}
}

func TestExtractDateMisses(t *testing.T) {
	for _, text := range []string{"", "tanpa tanggal", "31/02/2025", "18 Brumaire 2025"} {
		_, ok := ExtractDate(text)
		assert.False(t, ok, text)
	}
}
