package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nordkyc/internal/domain"
	"nordkyc/internal/registry/metrics"
	"nordkyc/internal/registry/store"
	pkgerrors "nordkyc/pkg/domain-errors"
	"nordkyc/pkg/textnorm"
)

// VerifyRequest carries the claimed identity to reconcile against the
// registry record. Empty claimed fields are skipped during reconciliation.
type VerifyRequest struct {
	NationalID  string `json:"nationalId"`
	Country     string `json:"country"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Service resolves verification requests against per-country registries,
// with an optional read-through cache in front of the registry clients.
type Service struct {
	clients Clients
	cache   store.Cache
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewService(clients Clients, cache store.Cache, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{clients: clients, cache: cache, log: log, metrics: m}
}

// Verify checks a claimed identity against the national registry for the
// claimed country. It never returns an error: every outcome, including
// registry unavailability, is expressed as a VerificationResult status.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) domain.VerificationResult {
	nationalID := strings.TrimSpace(req.NationalID)
	if nationalID == "" {
		s.metrics.IncrementOutcome("unknown", string(domain.StatusError))
		return domain.VerificationResult{
			Status: domain.StatusError,
			Reason: "nationalId is required",
			Source: "unknown",
		}
	}

	country := domain.NormalizeCountry(req.Country)
	source := country.RegistryName()

	record, err := s.lookup(ctx, country, nationalID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			s.metrics.IncrementOutcome(string(country), string(domain.StatusNotFound))
			return domain.VerificationResult{
				Status: domain.StatusNotFound,
				Reason: fmt.Sprintf("ID %s not found in %s registry.", nationalID, source),
				Source: source,
			}
		}
		s.log.ErrorContext(ctx, "registry lookup failed",
			slog.String("country", string(country)),
			slog.String("error", err.Error()))
		s.metrics.IncrementOutcome(string(country), string(domain.StatusError))
		return domain.VerificationResult{
			Status: domain.StatusError,
			Reason: fmt.Sprintf("registry lookup failed: %v", err),
			Source: source,
		}
	}

	if result, mismatched := reconcile(req, *record); mismatched {
		result.Source = source
		s.metrics.IncrementOutcome(string(country), string(domain.StatusMismatch))
		return result
	}

	s.metrics.IncrementOutcome(string(country), string(domain.StatusVerified))
	return domain.VerificationResult{
		Status:         domain.StatusVerified,
		Reason:         fmt.Sprintf("Found in %s registry.", source),
		RegistryRecord: record,
		Source:         source,
	}
}

// lookup reads through the cache when one is configured. Cache failures
// degrade to a direct registry call; negative results are never cached.
func (s *Service) lookup(ctx context.Context, country domain.CountryCode, nationalID string) (*domain.RegistryRecord, error) {
	if s.cache != nil {
		cached, err := s.cache.Find(ctx, country, nationalID)
		if err == nil {
			s.metrics.IncrementCacheHit()
			return cached, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.log.WarnContext(ctx, "registry cache read failed",
				slog.String("country", string(country)),
				slog.String("error", err.Error()))
		}
		s.metrics.IncrementCacheMiss()
	}

	client, ok := s.clients[country]
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeUnavailable, "no registry configured for %s", country)
	}

	start := time.Now()
	record, err := client.Lookup(ctx, nationalID)
	s.metrics.ObserveLookup(string(country), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, country, *record); err != nil {
			s.log.WarnContext(ctx, "registry cache write failed",
				slog.String("country", string(country)),
				slog.String("error", err.Error()))
		}
	}
	return record, nil
}

// reconcile compares the claimed fields against the registry record in fixed
// order: first name, last name, date of birth. The first mismatch wins and
// short-circuits the remaining comparisons. Name comparison ignores case,
// surrounding whitespace and diacritics; dates compare exactly after trimming.
func reconcile(req VerifyRequest, record domain.RegistryRecord) (domain.VerificationResult, bool) {
	mismatch := func(reason string) (domain.VerificationResult, bool) {
		return domain.VerificationResult{
			Status:         domain.StatusMismatch,
			Reason:         reason,
			RegistryRecord: &record,
		}, true
	}

	if req.FirstName != "" && !textnorm.Equal(req.FirstName, record.FirstName) {
		return mismatch(fmt.Sprintf("First name mismatch (got '%s', expected '%s').", req.FirstName, record.FirstName))
	}
	if req.LastName != "" && !textnorm.Equal(req.LastName, record.LastName) {
		return mismatch(fmt.Sprintf("Last name mismatch (got '%s', expected '%s').", req.LastName, record.LastName))
	}
	if req.DateOfBirth != "" && strings.TrimSpace(req.DateOfBirth) != strings.TrimSpace(record.DateOfBirth) {
		return mismatch(fmt.Sprintf("Date of birth mismatch (got '%s', expected '%s').", req.DateOfBirth, record.DateOfBirth))
	}
	return domain.VerificationResult{}, false
}
