package domain

import "nordkyc/pkg/textnorm"

// CountryCode is the closed set of supported onboarding countries.
type CountryCode string

const (
	CountryDK CountryCode = "DK"
	CountrySE CountryCode = "SE"
	CountryNO CountryCode = "NO"
	CountryFI CountryCode = "FI"
)

// Countries lists every supported country. Order is stable for iteration in
// tests and seeds.
func Countries() []CountryCode {
	return []CountryCode{CountryDK, CountrySE, CountryNO, CountryFI}
}

// NormalizeCountry maps free-text country input (codes, English or native
// names, any casing, diacritics ignored) onto a CountryCode. Unrecognized
// input defaults to DK, keeping the mapping total.
func NormalizeCountry(input string) CountryCode {
	switch textnorm.Fold(input) {
	case "dk", "danmark", "denmark":
		return CountryDK
	case "se", "sweden", "sverige":
		return CountrySE
	case "no", "norway", "norge":
		return CountryNO
	case "fi", "finland", "suomi":
		return CountryFI
	default:
		return CountryDK
	}
}

// RegistryName returns the lower-case registry source name reported in
// verification results ("denmark", "sweden", ...).
func (c CountryCode) RegistryName() string {
	switch c {
	case CountrySE:
		return "sweden"
	case CountryNO:
		return "norway"
	case CountryFI:
		return "finland"
	default:
		return "denmark"
	}
}

// CountryFromSource resolves a registry source name back to its country code,
// defaulting to DK for unknown sources.
func CountryFromSource(source string) CountryCode {
	switch textnorm.Fold(source) {
	case "sweden", "se":
		return CountrySE
	case "norway", "no":
		return CountryNO
	case "finland", "fi":
		return CountryFI
	default:
		return CountryDK
	}
}
