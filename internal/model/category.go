package model

import (
	"regexp"
	"strings"
)

// Category adalah jenis catatan kehadiran. Himpunannya tertutup dan urutannya
// dipakai untuk dashboard, dropdown, dan parser.
type Category string

const (
	CategorySakit     Category = "Sakit"
	CategoryCuti      Category = "Cuti"
	CategoryTerlambat Category = "Terlambat"
	CategoryAlpa      Category = "ALPA"
	CategoryIzin      Category = "IZIN"
	CategoryDinasLuar Category = "DINAS LUAR"
)

var categories = []Category{
	CategorySakit,
	CategoryCuti,
	CategoryTerlambat,
	CategoryAlpa,
	CategoryIzin,
	CategoryDinasLuar,
}

var whitespaceRx = regexp.MustCompile(`\s`)

// Categories mengembalikan salinan himpunan kategori dalam urutan tampilan.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Slug: "DINAS LUAR" -> "dinas_luar". Dipakai sebagai kunci binding UI.
func (c Category) Slug() string {
	return whitespaceRx.ReplaceAllString(strings.ToLower(string(c)), "_")
}

func (c Category) Valid() bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory menerima label ("DINAS LUAR") maupun slug ("dinas_luar"),
// tanpa membedakan huruf besar/kecil.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, k := range categories {
		if strings.EqualFold(string(k), s) || strings.EqualFold(k.Slug(), s) {
			return k, true
		}
	}
	return "", false
}
