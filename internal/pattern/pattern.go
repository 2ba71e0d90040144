// Package pattern holds the per-country grammar for national identity
// numbers. The catalog is consulted both to validate structured extraction
// output and to fish candidates out of free-text model responses.
package pattern

import (
	"regexp"
	"strings"

	"nordkyc/internal/domain"
)

var (
	// SE: YYMMDD-XXXX or YYYYMMDD-XXXX, hyphen optional.
	patternSE = regexp.MustCompile(`\b(?:\d{6}|\d{8})-?\d{4}\b`)
	// DK: DDMMYY-XXXX, hyphen optional.
	patternDK = regexp.MustCompile(`\b\d{6}-?\d{4}\b`)
	// NO: fødselsnummer, exactly 11 digits.
	patternNO = regexp.MustCompile(`\b\d{11}\b`)
	// FI: HETU, DDMMYY then century separator then 4 alphanumerics.
	patternFI = regexp.MustCompile(`(?i)\b\d{6}[-+A][0-9A-Za-z]{4}\b`)
	// matchNothing rejects everything for countries outside the catalog.
	matchNothing = regexp.MustCompile(`\A\z.`)
)

// For returns the identity-number grammar for a country. The returned
// expression matches anywhere in a string; use Matches for whole-string
// validation.
func For(country domain.CountryCode) *regexp.Regexp {
	switch country {
	case domain.CountrySE:
		return patternSE
	case domain.CountryDK:
		return patternDK
	case domain.CountryNO:
		return patternNO
	case domain.CountryFI:
		return patternFI
	default:
		return matchNothing
	}
}

// Matches reports whether candidate, in full, is a valid identifier shape for
// the country.
func Matches(country domain.CountryCode, candidate string) bool {
	re := For(country)
	loc := re.FindStringIndex(candidate)
	return loc != nil && loc[0] == 0 && loc[1] == len(candidate)
}

// Find scans text for the first embedded identifier matching the country
// grammar. The match is upper-cased; whatever delimiter the source used is
// preserved. Returns "" when nothing matches.
func Find(country domain.CountryCode, text string) string {
	m := For(country).FindString(text)
	return strings.ToUpper(m)
}

// FindAll returns every embedded identifier in text matching the country
// grammar, upper-cased, in order of appearance.
func FindAll(country domain.CountryCode, text string) []string {
	matches := For(country).FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.ToUpper(m)
	}
	return matches
}
