package domain

// IdentityClaim is the extraction artifact handed from the extractor to the
// verifier. It is transient and never persisted.
type IdentityClaim struct {
	NationalID string      `json:"nationalId"`
	Country    CountryCode `json:"country"`
}

// IsResolved reports whether the extraction actually produced an identifier.
func (c IdentityClaim) IsResolved() bool {
	return c.NationalID != ""
}

// Last4 returns the trailing four characters of the identifier for redacted
// display, or the whole identifier when shorter.
func (c IdentityClaim) Last4() string {
	if len(c.NationalID) <= 4 {
		return c.NationalID
	}
	return c.NationalID[len(c.NationalID)-4:]
}
