package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rekap-kehadiran/internal/model"
)

var (
	numericDateRx = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	wordDateRx    = regexp.MustCompile(`(\d{1,2})\s+([a-z.]+)\s+(\d{4})`)
)

var monthNames = map[string]int{
	"januari": 1, "jan": 1,
	"februari": 2, "feb": 2,
	"maret": 3, "mar": 3,
	"april": 4, "apr": 4,
	"mei": 5,
	"juni": 6, "june": 6, "jun": 6,
	"juli": 7, "jul": 7,
	"agustus": 8, "agt": 8, "agu": 8, "ags": 8,
	"september": 9, "sept": 9, "sep": 9,
	"oktober": 10, "okt": 10,
	"november": 11, "nov": 11,
	"desember": 12, "des": 12,
}

// ExtractDate mencari tanggal laporan: "18/10/2025", "18-10-2025", atau
// "18 Oktober 2025" / "18 Okt. 2025". Hasil dalam format YYYY-MM-DD.
func ExtractDate(text string) (string, bool) {
	if m := numericDateRx.FindStringSubmatch(text); m != nil {
		if d, ok := composeDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}

	for _, m := range wordDateRx.FindAllStringSubmatch(stripMarks(text), -1) {
		month, ok := monthNames[strings.ReplaceAll(m[2], ".", "")]
		if !ok {
			continue
		}
		if d, ok := composeDate(m[3], strconv.Itoa(month), m[1]); ok {
			return d, true
		}
	}
	return "", false
}

func composeDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	s := fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
	// tolak tanggal mustahil seperti 31/02
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return "", false
	}
	return s, true
}
