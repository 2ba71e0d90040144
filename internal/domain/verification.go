package domain

// VerificationResult is produced once per verification attempt and consumed
// immediately by the registrar; it is not persisted.
type VerificationResult struct {
	Status         Status          `json:"status"`
	Reason         string          `json:"reason"`
	RegistryRecord *RegistryRecord `json:"registry_record"`
	Source         string          `json:"source"` // registry name, e.g. "denmark"
}

// IsVerified reports whether the identity cleared registry verification.
func (v VerificationResult) IsVerified() bool {
	return v.Status == StatusVerified
}
