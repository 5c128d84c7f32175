package ocr

import (
	"regexp"
	"strings"

	"rekap-kehadiran/internal/model"
)

// Group adalah daftar nama untuk satu kategori hasil parsing laporan.
type Group struct {
	Category model.Category `json:"category"`
	Names    []string       `json:"names"`
}

type categoryPattern struct {
	category model.Category
	rx       *regexp.Regexp
}

// sinonim per kategori, urut sesuai urutan kategori
var patterns = []categoryPattern{
	{model.CategorySakit, regexp.MustCompile(`(?i)\bsakit\s*:`)},
	{model.CategoryCuti, regexp.MustCompile(`(?i)\bcuti\s*:`)},
	{model.CategoryTerlambat, regexp.MustCompile(`(?i)\b(terlambat|telat)\s*:`)},
	{model.CategoryAlpa, regexp.MustCompile(`(?i)\b(alpa|alpha|tanpa\s*keterangan|tk|td)\s*:`)},
	{model.CategoryIzin, regexp.MustCompile(`(?i)\b(ijin|izin)\s*:`)},
	{model.CategoryDinasLuar, regexp.MustCompile(`(?i)\b(dl|dinas\s*luar)\s*:`)},
}

var (
	parenRx     = regexp.MustCompile(`\(([^)]+)\)`)
	delimRx     = regexp.MustCompile(`[,;•\-]`)
	qtyPrefixRx = regexp.MustCompile(`^\d+\s*`)
)

// Parse membaca teks laporan menjadi grup (kategori, nama). Input apa pun
// menghasilkan slice (mungkin kosong), tidak pernah error.
func Parse(text string) []Group {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	groups := []Group{}
	for _, p := range patterns {
		line, ok := firstMatchingLine(lines, p.rx)
		if !ok {
			continue
		}
		if names := splitNames(payload(line)); len(names) > 0 {
			groups = append(groups, Group{Category: p.category, Names: names})
		}
	}
	return groups
}

func firstMatchingLine(lines []string, rx *regexp.Regexp) (string, bool) {
	for _, l := range lines {
		if rx.MatchString(l) {
			return l, true
		}
	}
	return "", false
}

// payload: teks setelah titik dua pertama. Isi kurung, jika ada, menggantikan
// payload mentah ("1(Moh. Fikri), 2(Siti)" -> "Moh. Fikri,Siti").
func payload(line string) string {
	i := strings.Index(line, ":")
	if i < 0 {
		return ""
	}
	raw := line[i+1:]

	var inside []string
	for _, m := range parenRx.FindAllStringSubmatch(raw, -1) {
		inside = append(inside, m[1])
	}
	if len(inside) > 0 {
		return strings.Join(inside, ",")
	}
	return raw
}

func splitNames(list string) []string {
	var names []string
	for _, part := range delimRx.Split(list, -1) {
		n := qtyPrefixRx.ReplaceAllString(strings.TrimSpace(part), "")
		n = strings.ReplaceAll(n, ".", " ")
		n = strings.TrimSpace(spaceRx.ReplaceAllString(n, " "))
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
