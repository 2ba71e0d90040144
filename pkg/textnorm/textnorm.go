// Package textnorm provides the canonical text folding used for identity
// comparisons: diacritics stripped, whitespace trimmed, lower-cased. Folding
// is for comparison only; stored data is never mutated.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the comparison form of s: NFD-decomposed with combining marks
// removed, trimmed, and lower-cased. "Zúñiga " and "zuniga" fold equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw input
		// so comparisons stay deterministic.
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Equal reports whether a and b fold to the same comparison form.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
