// Package extract turns an uploaded document image into a national identity
// number with a confidence score. Extraction fails softly: an unresolved
// identifier is an empty result with confidence 0.0, not an error.
package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nordkyc/internal/blob"
	"nordkyc/internal/domain"
	extractmetrics "nordkyc/internal/extract/metrics"
	"nordkyc/internal/inference"
	"nordkyc/internal/pattern"
)

// maxRawAudit caps the raw model response stored in audit artifacts.
const maxRawAudit = 10000

// Request identifies the document image to extract from. Either Key or
// SessionID must be set; with only a SessionID the newest upload under the
// session prefix is used.
type Request struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	SessionID string `json:"sessionId"`
	Country   string `json:"country"`
}

// Result is the extraction outcome. Status is OK when an identifier was
// resolved, PARTIAL when extraction ran but found nothing, ERROR for input or
// collaborator failures before inference could run.
type Result struct {
	Status     domain.Status        `json:"status"`
	Reason     string               `json:"reason,omitempty"`
	Missing    []string             `json:"missing,omitempty"`
	Identity   domain.IdentityClaim `json:"identity"`
	Confidence float64              `json:"confidence"`
	Strategy   string               `json:"attempt,omitempty"`
	Key        string               `json:"key,omitempty"`
}

type diagnostics struct {
	attempt string
	raw     string
}

// Service implements the two-strategy, retried extraction procedure.
type Service struct {
	inference inference.Client
	blobs     blob.Store
	log       *slog.Logger
	policy    Policy
	metrics   *extractmetrics.Metrics

	now   func() time.Time
	sleep func(time.Duration)
}

// NewService wires the extractor. metrics may be nil.
func NewService(inf inference.Client, blobs blob.Store, log *slog.Logger, policy Policy, m *extractmetrics.Metrics) *Service {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &Service{
		inference: inf,
		blobs:     blobs,
		log:       log,
		policy:    policy,
		metrics:   m,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Extract resolves the document image and runs the extraction ladder. It
// never returns an error; every failure mode maps onto a Result status.
func (s *Service) Extract(ctx context.Context, req Request) Result {
	start := s.now()
	defer func() { s.metrics.ObserveExtractLatency(s.now().Sub(start)) }()

	country := domain.NormalizeCountry(req.Country)

	if req.Bucket == "" {
		return Result{Status: domain.StatusError, Reason: "bucket is required"}
	}

	key := req.Key
	if key == "" && req.SessionID != "" {
		key = s.findKeyBySession(ctx, req.Bucket, country, req.SessionID)
	}
	if key == "" {
		return Result{Status: domain.StatusError, Reason: "key or sessionId is required (no image found)"}
	}

	img, err := s.blobs.Get(ctx, req.Bucket, key)
	if err != nil {
		s.log.ErrorContext(ctx, "image fetch failed", "bucket", req.Bucket, "key", key, "error", err)
		return Result{Status: domain.StatusError, Reason: fmt.Sprintf("fetch image %s: %v", key, err), Key: key}
	}

	var (
		nationalID string
		confidence float64
		diag       diagnostics
	)
	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		nationalID, confidence, diag = s.extractOnce(ctx, img, country)
		if nationalID != "" {
			break
		}
		if attempt < s.policy.MaxAttempts-1 {
			s.sleep(s.policy.BackoffStep * time.Duration(attempt+1))
		}
	}
	s.metrics.IncrementAttempt(diag.attempt)

	identity := domain.IdentityClaim{NationalID: nationalID, Country: country}

	if s.policy.WriteAudit {
		s.writeAudit(ctx, req.Bucket, key, identity, confidence, diag)
	}

	if !identity.IsResolved() {
		return Result{
			Status:     domain.StatusPartial,
			Missing:    []string{"nationalId"},
			Identity:   identity,
			Confidence: confidence,
			Strategy:   diag.attempt,
			Key:        key,
		}
	}
	return Result{
		Status:     domain.StatusOK,
		Identity:   identity,
		Confidence: confidence,
		Strategy:   diag.attempt,
		Key:        key,
	}
}

// findKeyBySession locates the newest object under today's session prefix.
func (s *Service) findKeyBySession(ctx context.Context, bucket string, country domain.CountryCode, sessionID string) string {
	prefix := fmt.Sprintf("onboard/%s/%s/%s/", country, s.now().UTC().Format("2006/01/02"), sessionID)
	infos, err := s.blobs.List(ctx, bucket, prefix)
	if err != nil {
		s.log.WarnContext(ctx, "session prefix listing failed", "prefix", prefix, "error", err)
		return ""
	}
	return blob.LatestKey(infos)
}

// extractOnce runs one full two-strategy round against the inference
// collaborator.
func (s *Service) extractOnce(ctx context.Context, img []byte, country domain.CountryCode) (string, float64, diagnostics) {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)

	// Strategy 1: strict schema with a single nationalId field.
	comp, err := s.inference.Complete(ctx, strictRequest(dataURI, country))
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "strict extraction attempt failed", "error", err)
	case comp.Content == "":
		s.log.WarnContext(ctx, "strict extraction returned no content", "refusal", comp.Refusal)
	default:
		var parsed struct {
			NationalID string `json:"nationalId"`
		}
		if jsonErr := json.Unmarshal([]byte(cleanFencedJSON(comp.Content)), &parsed); jsonErr == nil {
			if nid := strings.TrimSpace(parsed.NationalID); nid != "" {
				if m := pattern.Find(country, nid); m != "" {
					return m, s.policy.StrictConfidence, diagnostics{attempt: "strict", raw: comp.Raw}
				}
				// Near miss: the model wrapped the identifier in extra text.
				if m := pattern.Find(country, comp.Content); m != "" {
					return m, s.policy.RecoveredConfidence, diagnostics{attempt: "strict-recovered", raw: comp.Raw}
				}
			}
		}
	}

	// Strategy 2: permissive candidate list, picked locally by grammar.
	comp2, err := s.inference.Complete(ctx, fallbackRequest(dataURI, country))
	if err != nil {
		s.log.WarnContext(ctx, "fallback extraction attempt failed", "error", err)
		return "", 0, diagnostics{attempt: "none"}
	}

	text := comp2.Content
	candidates := parseCandidates(cleanFencedJSON(text))
	if candidates == nil {
		// Malformed JSON: fish identifiers straight out of the raw text.
		candidates = pattern.FindAll(country, text)
	}

	for _, candidate := range candidates {
		if m := pattern.Find(country, candidate); m != "" {
			return m, s.policy.FallbackConfidence, diagnostics{attempt: "fallback", raw: comp2.Raw}
		}
	}
	if m := pattern.Find(country, text); m != "" {
		return m, s.policy.ScanConfidence, diagnostics{attempt: "fallback-scan", raw: comp2.Raw}
	}

	s.log.WarnContext(ctx, "fallback extraction produced no valid candidate")
	return "", 0, diagnostics{attempt: "fallback-none", raw: comp2.Raw}
}

// parseCandidates decodes a {"candidates": [...]} payload, tolerating a bare
// string as a one-element list. Returns nil when the JSON is unusable.
func parseCandidates(clean string) []string {
	var parsed struct {
		Candidates any `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil
	}
	switch v := parsed.Candidates.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}

// writeAudit stores the extraction audit artifact next to the source image.
// Best effort: failures are logged and never affect the returned result.
func (s *Service) writeAudit(ctx context.Context, bucket, key string, identity domain.IdentityClaim, confidence float64, diag diagnostics) {
	artifact := map[string]any{
		"attempt":    diag.attempt,
		"identity":   identity,
		"confidence": confidence,
		"source":     map[string]string{"bucket": bucket, "key": key},
	}
	if diag.raw != "" {
		raw := diag.raw
		if len(raw) > maxRawAudit {
			raw = raw[:maxRawAudit] + "...<truncated>"
		}
		artifact["raw_choice"] = raw
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		s.log.WarnContext(ctx, "audit artifact encode failed", "error", err)
		s.metrics.IncrementAuditWriteFailure()
		return
	}
	if err := s.blobs.Put(ctx, bucket, key+".extracted.json", payload, "application/json"); err != nil {
		s.log.WarnContext(ctx, "audit artifact write failed", "key", key, "error", err)
		s.metrics.IncrementAuditWriteFailure()
	}
}
