package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRx = regexp.MustCompile(`[^a-z0-9\s]+`)
	spaceRx    = regexp.MustCompile(`\s+`)
)

// stripMarks: huruf kecil lalu buang diakritik ("José" -> "jose").
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Normalize menyamakan nama untuk pencocokan: huruf kecil, tanpa diakritik,
// non-alfanumerik jadi spasi, spasi dirapatkan.
func Normalize(s string) string {
	s = nonAlnumRx.ReplaceAllString(stripMarks(s), " ")
	return strings.TrimSpace(spaceRx.ReplaceAllString(s, " "))
}
