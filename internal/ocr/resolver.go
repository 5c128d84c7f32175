package ocr

import (
	"strings"

	"rekap-kehadiran/internal/model"
)

// Match adalah kandidat karyawan terbaik untuk sebuah nama bebas.
type Match struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
}

type candidate struct {
	employee   model.Employee
	normalized string
}

// Resolver mencocokkan nama hasil OCR ke daftar karyawan secara heuristik.
// Hasilnya tidak dijamin benar; pemanggil menampilkan kecocokan untuk
// dikonfirmasi.
type Resolver struct {
	candidates []candidate
}

func NewResolver(employees []model.Employee) *Resolver {
	r := &Resolver{}
	for _, e := range employees {
		n := Normalize(e.Name)
		if n == "" {
			continue
		}
		r.candidates = append(r.candidates, candidate{employee: e, normalized: n})
	}
	return r
}

// Best mengembalikan karyawan dengan skor tertinggi. Skor: jumlah token query
// yang muncul di nama, +1 jika nama awalan query, +1 jika query awalan nama.
// Skor seri: yang pertama dilihat menang.
func (r *Resolver) Best(name string) (Match, bool) {
	target := Normalize(name)
	if target == "" {
		return Match{}, false
	}
	tokens := strings.Split(target, " ")

	var best Match
	for _, c := range r.candidates {
		score := 0
		for _, t := range tokens {
			if strings.Contains(c.normalized, t) {
				score++
			}
		}
		if strings.HasPrefix(target, c.normalized) {
			score++
		}
		if strings.HasPrefix(c.normalized, target) {
			score++
		}
		if score > best.Score {
			best = Match{EmployeeID: c.employee.ID, Name: c.employee.Name, Score: score}
		}
	}
	return best, best.Score > 0
}

// Resolve mengembalikan id karyawan, atau false jika tidak ada yang cocok.
func (r *Resolver) Resolve(name string) (string, bool) {
	m, ok := r.Best(name)
	return m.EmployeeID, ok
}
