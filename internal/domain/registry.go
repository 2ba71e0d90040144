package domain

// RegistryRecord is an immutable reference entity from a national registry,
// keyed by (country, national ID). Records are sourced from static registry
// collaborators and never mutated at runtime.
type RegistryRecord struct {
	NationalID    string   `json:"national_id"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	DateOfBirth   string   `json:"dateOfBirth"` // ISO date, YYYY-MM-DD
	Gender        string   `json:"gender"`
	Address       string   `json:"address"`
	MaritalStatus string   `json:"maritalStatus"`
	Citizenship   []string `json:"citizenship"`
}

// HasRequiredFields reports whether the record carries everything the
// registrar needs to create a customer.
func (r RegistryRecord) HasRequiredFields() bool {
	return r.NationalID != "" && r.FirstName != "" && r.LastName != "" && r.DateOfBirth != ""
}
