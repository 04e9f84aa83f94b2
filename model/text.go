package model

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Placeholder dashes that financial statements use for "no value". A cell
// holding only these (plus whitespace) counts as blank everywhere in the
// pipeline.
var placeholderDashes = map[rune]bool{
	'-': true, '–': true, '—': true,
}

// IsBlankCell reports whether a cell is empty for scoring and filtering
// purposes: all whitespace, or dash placeholders only.
func IsBlankCell(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !placeholderDashes[r] {
			return false
		}
	}
	return true
}

// HanCount returns the number of Han (CJK ideograph) runes in s.
func HanCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}

// RuneLen returns the rune count of s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// NormalizeWidth folds full-width digits and punctuation to their ASCII
// forms, so numeric heuristics see "1,234" regardless of the PDF's glyph
// choice.
func NormalizeWidth(s string) string {
	return width.Fold.String(s)
}

// DigitCount returns the number of ASCII digits in s after width folding.
func DigitCount(s string) int {
	n := 0
	for _, r := range NormalizeWidth(s) {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// TruncateRunes returns the first n runes of s.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
