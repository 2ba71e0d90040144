package domain

import (
	"fmt"
	"time"
)

// CustomerKey is the unique identity of a customer record. At most one
// customer may ever exist per key; the registrar's conditional insert is the
// sole enforcement point.
type CustomerKey struct {
	Country    CountryCode
	NationalID string
}

// String renders the partition-key form used by key-value backends.
func (k CustomerKey) String() string {
	return fmt.Sprintf("%s#%s", k.Country, k.NationalID)
}

// CustomerRecord is the durable entity created exactly once per key by the
// first writer to win the conditional insert. It is never updated or deleted
// by this subsystem.
type CustomerRecord struct {
	CustomerID  string      `json:"customerId"`
	NationalID  string      `json:"nationalId"`
	Country     CountryCode `json:"country"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth string      `json:"dateOfBirth"`
	Email       string      `json:"email"`
	Source      string      `json:"source"`
	Status      Status      `json:"status"` // always REGISTERED
	CreatedAt   time.Time   `json:"createdAt"`
}

// Key derives the uniqueness key from the record's own fields.
func (r CustomerRecord) Key() CustomerKey {
	return CustomerKey{Country: r.Country, NationalID: r.NationalID}
}

// RegistrationResult is the registrar's structured outcome. Identifying fields
// are echoed for both fresh and already-registered outcomes.
type RegistrationResult struct {
	Status     Status      `json:"status"`
	Reason     string      `json:"reason"`
	CustomerID string      `json:"customerId,omitempty"`
	Email      string      `json:"email,omitempty"`
	NationalID string      `json:"nationalId,omitempty"`
	Country    CountryCode `json:"country,omitempty"`
}
