package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"nordkyc/internal/customer/metrics"
	"nordkyc/internal/domain"
	"nordkyc/pkg/textnorm"
)

// RegisterRequest carries a verification outcome into registration. Only
// VERIFIED outcomes are eligible; the identity fields come from the registry
// record, not from user input.
type RegisterRequest struct {
	VerificationStatus domain.Status          `json:"verificationStatus"`
	Source             string                 `json:"source"`
	Record             *domain.RegistryRecord `json:"registry_record"`
}

// Registrar creates customer records exactly once per (country, national ID).
// Idempotency is layered: a read fast-path for the common repeat call, and a
// conditional insert that settles concurrent first-time registrations.
type Registrar struct {
	store       Store
	log         *slog.Logger
	metrics     *metrics.Metrics
	emailDomain string

	now   func() time.Time
	newID func() string
}

func NewRegistrar(store Store, log *slog.Logger, m *metrics.Metrics, emailDomain string) *Registrar {
	return &Registrar{
		store:       store,
		log:         log,
		metrics:     m,
		emailDomain: emailDomain,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Register creates the customer for a verified identity, or reports the
// existing one. It never returns an error: all outcomes are expressed as a
// RegistrationResult status.
func (r *Registrar) Register(ctx context.Context, req RegisterRequest) domain.RegistrationResult {
	if req.VerificationStatus != domain.StatusVerified {
		r.metrics.IncrementOutcome("unknown", string(domain.StatusError))
		return domain.RegistrationResult{
			Status: domain.StatusError,
			Reason: "Identity must be VERIFIED before registration.",
		}
	}
	if req.Record == nil || !req.Record.HasRequiredFields() {
		r.metrics.IncrementOutcome("unknown", string(domain.StatusError))
		return domain.RegistrationResult{
			Status: domain.StatusError,
			Reason: "Registry record is missing required fields.",
		}
	}

	country := domain.CountryFromSource(req.Source)
	key := domain.CustomerKey{Country: country, NationalID: req.Record.NationalID}

	if existing, err := r.store.FindByKey(ctx, key); err == nil {
		r.metrics.IncrementOutcome(string(country), string(domain.StatusAlreadyRegistered))
		return alreadyRegistered(*existing)
	} else if !errors.Is(err, ErrNotFound) {
		return r.persistenceError(ctx, key, err)
	}

	record := domain.CustomerRecord{
		CustomerID:  r.newID(),
		NationalID:  req.Record.NationalID,
		Country:     country,
		FirstName:   req.Record.FirstName,
		LastName:    req.Record.LastName,
		DateOfBirth: req.Record.DateOfBirth,
		Email:       DeriveEmail(req.Record.FirstName, req.Record.LastName, r.emailDomain),
		Source:      req.Source,
		Status:      domain.StatusRegistered,
		CreatedAt:   r.now().UTC(),
	}

	if err := r.store.Insert(ctx, record); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the race; the winner's record is authoritative.
			if existing, findErr := r.store.FindByKey(ctx, key); findErr == nil {
				r.metrics.IncrementOutcome(string(country), string(domain.StatusAlreadyRegistered))
				return alreadyRegistered(*existing)
			}
		}
		return r.persistenceError(ctx, key, err)
	}

	r.log.InfoContext(ctx, "customer registered",
		slog.String("customer_id", record.CustomerID),
		slog.String("country", string(country)))
	r.metrics.IncrementOutcome(string(country), string(domain.StatusRegistered))
	return domain.RegistrationResult{
		Status:     domain.StatusRegistered,
		Reason:     "Customer registered successfully.",
		CustomerID: record.CustomerID,
		Email:      record.Email,
		NationalID: record.NationalID,
		Country:    record.Country,
	}
}

func (r *Registrar) persistenceError(ctx context.Context, key domain.CustomerKey, err error) domain.RegistrationResult {
	r.log.ErrorContext(ctx, "customer store failed",
		slog.String("key", key.String()),
		slog.String("error", err.Error()))
	r.metrics.IncrementOutcome(string(key.Country), string(domain.StatusError))
	return domain.RegistrationResult{
		Status: domain.StatusError,
		Reason: fmt.Sprintf("customer store failed: %v", err),
	}
}

func alreadyRegistered(record domain.CustomerRecord) domain.RegistrationResult {
	return domain.RegistrationResult{
		Status:     domain.StatusAlreadyRegistered,
		Reason:     "Customer already registered.",
		CustomerID: record.CustomerID,
		Email:      record.Email,
		NationalID: record.NationalID,
		Country:    record.Country,
	}
}

var emailCharset = regexp.MustCompile(`[^a-z0-9.@]`)

// DeriveEmail builds the customer contact address as first.last@domain,
// lower-cased with diacritics stripped and anything outside [a-z0-9.@]
// removed.
func DeriveEmail(firstName, lastName, emailDomain string) string {
	first := strings.ReplaceAll(textnorm.Fold(firstName), " ", "")
	last := strings.ReplaceAll(textnorm.Fold(lastName), " ", "")
	address := fmt.Sprintf("%s.%s@%s", first, last, emailDomain)
	return emailCharset.ReplaceAllString(address, "")
}
