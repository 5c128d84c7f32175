package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	MonthYearLayout = "2006-01"
)

// MonthYearOf membentuk kunci "YYYY-MM" dari bulan kalender lokal t.
func MonthYearOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ValidMonthYear memeriksa format "YYYY-MM".
func ValidMonthYear(s string) bool {
	_, err := time.Parse(MonthYearLayout, s)
	return err == nil && len(s) == len(MonthYearLayout)
}

// ComposeTimestamp menggabungkan tanggal "YYYY-MM-DD" dan jam "HH:MM" menjadi
// waktu lokal. Jam dengan titik ("11.23") diterima sebagai "11:23".
func ComposeTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	clock = strings.Replace(strings.TrimSpace(clock), ".", ":", 1)
	t, err := time.ParseInLocation(DateLayout+"T15:04", strings.TrimSpace(date)+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("format tanggal/waktu tidak valid: %w", err)
	}
	return t, nil
}

// MonthYearOfDate menghitung kunci bulan dari tanggal "YYYY-MM-DD".
func MonthYearOfDate(date string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return "", fmt.Errorf("format tanggal tidak valid: %w", err)
	}
	return MonthYearOf(d), nil
}
