// Package httptransport exposes the onboarding pipeline over HTTP. Handlers
// stay thin: decode, delegate to a service, encode. Business rules live in
// the service packages.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nordkyc/internal/customer"
	"nordkyc/internal/domain"
	"nordkyc/internal/extract"
	"nordkyc/internal/orchestrator"
	"nordkyc/internal/registry"
	pkgerrors "nordkyc/pkg/domain-errors"
	"nordkyc/pkg/httputil"
	"nordkyc/pkg/requestcontext"
)

// maxBodyBytes bounds incoming request bodies. Document images travel through
// the blob store, not through this API, so requests stay small.
const maxBodyBytes = 1 << 20

// Orchestrator defines the interface for envelope dispatch.
type Orchestrator interface {
	Dispatch(ctx context.Context, env orchestrator.Envelope) orchestrator.Result
}

// Extractor defines the interface for document extraction.
type Extractor interface {
	Extract(ctx context.Context, req extract.Request) extract.Result
}

// Verifier defines the interface for registry verification.
type Verifier interface {
	Verify(ctx context.Context, req registry.VerifyRequest) domain.VerificationResult
}

// Registrar defines the interface for customer registration.
type Registrar interface {
	Register(ctx context.Context, req customer.RegisterRequest) domain.RegistrationResult
}

// Handler wires pipeline endpoints to their services.
type Handler struct {
	orchestrator Orchestrator
	extractor    Extractor
	verifier     Verifier
	registrar    Registrar
	logger       *slog.Logger
}

// NewHandler constructs the transport handler with its dependencies.
func NewHandler(o Orchestrator, e Extractor, v Verifier, r Registrar, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: o,
		extractor:    e,
		verifier:     v,
		registrar:    r,
		logger:       logger,
	}
}

// HandleDispatch handles POST /v1/dispatch requests. The body is a raw
// invocation envelope, possibly wrapped by an upstream stage.
func (h *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, "read request body", err))
		return
	}

	env, err := orchestrator.ParseEnvelope(payload)
	if err != nil {
		h.logger.WarnContext(ctx, "envelope rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, "invalid envelope", err))
		return
	}
	if sessionID := requestcontext.SessionID(ctx); sessionID != "" && env.SessionAttributes["sessionId"] == "" {
		env.SessionAttributes["sessionId"] = sessionID
	}

	result := h.orchestrator.Dispatch(ctx, env)

	h.logger.InfoContext(ctx, "envelope dispatched",
		"request_id", requestcontext.RequestID(ctx),
		"function", env.Function,
		"response_state", result.ResponseState,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleExtract handles POST /v1/extract requests.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[extract.Request](w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.extractor.Extract(r.Context(), req))
}

// HandleVerify handles POST /v1/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[registry.VerifyRequest](w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.verifier.Verify(r.Context(), req))
}

// HandleRegister handles POST /v1/register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[customer.RegisterRequest](w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.registrar.Register(r.Context(), req))
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		httputil.WriteError(w, pkgerrors.Wrap(pkgerrors.CodeInvalidInput, "invalid request body", err))
		return req, false
	}
	return req, true
}
