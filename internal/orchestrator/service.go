package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nordkyc/internal/audit"
	"nordkyc/internal/customer"
	"nordkyc/internal/domain"
	"nordkyc/internal/extract"
	"nordkyc/internal/platform/metrics"
	"nordkyc/internal/registry"
	"nordkyc/pkg/textnorm"
)

// Response states returned alongside a body. An empty state means the body is
// a normal stage result.
const (
	StateReprompt = "REPROMPT"
	StateFailure  = "FAILURE"
)

// Session and prompt attribute keys maintained across dispatches.
const (
	sessionKeyVerificationStatus = "verificationStatus"
	promptKeyLast4               = "verified.last4"
	promptKeyCountry             = "verified.country"
)

// sessionStatusUploaded marks a session whose document is in but whose
// identity has not cleared verification yet. It is session vocabulary, not a
// stage result status.
const sessionStatusUploaded = "UPLOADED"

// Result is the orchestrator's answer to one invocation. Session and prompt
// attributes are echoed back with any updates applied.
type Result struct {
	Function                string            `json:"function"`
	ResponseState           string            `json:"responseState,omitempty"`
	Body                    json.RawMessage   `json:"body"`
	SessionAttributes       map[string]string `json:"sessionAttributes,omitempty"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes,omitempty"`
}

// ChainOutcome is the body of an orchestrated extract dispatch. Later stages
// are omitted when an earlier stage short-circuits the chain.
type ChainOutcome struct {
	Extraction   extract.Result             `json:"extraction"`
	Verification *domain.VerificationResult `json:"verification,omitempty"`
	Registration *domain.RegistrationResult `json:"registration,omitempty"`
	Diagnostics  Diagnostics                `json:"_orchestrator"`
}

// Diagnostics records what the orchestrator resolved on the caller's behalf:
// the routed function, the parameters merged from request and session
// defaults, and whether later stages were chained automatically.
type Diagnostics struct {
	Called       string            `json:"called"`
	MergedParams map[string]string `json:"mergedParams,omitempty"`
	AutoChained  bool              `json:"autoChained,omitempty"`
}

// verifyBody and registerBody are pass-through response bodies: the stage
// result flattened alongside the orchestrator diagnostics block.
type verifyBody struct {
	domain.VerificationResult
	Diagnostics Diagnostics `json:"_orchestrator"`
}

type registerBody struct {
	domain.RegistrationResult
	Diagnostics Diagnostics `json:"_orchestrator"`
}

// Service routes envelopes to pipeline stages and maintains session state.
type Service struct {
	invoker       Invoker
	publisher     audit.Publisher
	log           *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	defaultBucket string

	now func() time.Time
}

// NewService wires the orchestrator. publisher and m may be nil.
func NewService(invoker Invoker, publisher audit.Publisher, log *slog.Logger, m *metrics.Metrics, defaultBucket string) *Service {
	return &Service{
		invoker:       invoker,
		publisher:     publisher,
		log:           log,
		metrics:       m,
		tracer:        otel.Tracer("nordkyc/orchestrator"),
		defaultBucket: defaultBucket,
		now:           time.Now,
	}
}

// Dispatch routes one invocation envelope. Unknown functions produce a
// REPROMPT result; stage transport failures produce a FAILURE result naming
// the failed component. Dispatch itself never returns an error.
func (s *Service) Dispatch(ctx context.Context, env Envelope) Result {
	ctx, span := s.tracer.Start(ctx, "orchestrator.dispatch",
		trace.WithAttributes(attribute.String("function", env.Function)))
	defer span.End()

	if env.SessionAttributes == nil {
		env.SessionAttributes = map[string]string{}
	}
	if env.PromptSessionAttributes == nil {
		env.PromptSessionAttributes = map[string]string{}
	}

	var result Result
	switch canonicalFunction(env.Function) {
	case "extract":
		result = s.runChain(ctx, env)
	case "verify":
		result = s.runVerify(ctx, env)
	case "register":
		result = s.runRegister(ctx, env)
	default:
		s.metrics.IncrementDispatch(env.Function, "UNKNOWN_FUNCTION")
		result = Result{
			Function:      env.Function,
			ResponseState: StateReprompt,
			Body: mustJSON(map[string]string{
				"status": string(domain.StatusError),
				"reason": fmt.Sprintf("Unknown function '%s'.", env.Function),
			}),
			SessionAttributes:       env.SessionAttributes,
			PromptSessionAttributes: env.PromptSessionAttributes,
		}
	}

	s.publishAudit(ctx, env, result)
	return result
}

// canonicalFunction maps the wire function name onto a pipeline stage.
// Both short names and the fully qualified action names are accepted.
func canonicalFunction(name string) string {
	switch textnorm.Fold(name) {
	case "extract", "extract_id", "extractid":
		return "extract"
	case "verify", "verify_identity", "verifyidentity":
		return "verify"
	case "register", "register_customer", "registercustomer":
		return "register"
	default:
		return ""
	}
}

// runChain executes extract, then verify and register, stopping at the first
// stage whose outcome cannot feed the next one. The session records the
// highest stage reached: UPLOADED once a document dispatch is in flight,
// VERIFIED only when the registry confirms the identity.
func (s *Service) runChain(ctx context.Context, env Envelope) Result {
	if env.SessionAttributes[sessionKeyVerificationStatus] == "" {
		env.SessionAttributes[sessionKeyVerificationStatus] = sessionStatusUploaded
	}

	extractReq := extract.Request{
		Bucket:    env.Parameters.Get("bucket", env.SessionAttributes["bucket"]),
		Key:       env.Parameters.Get("key", ""),
		SessionID: env.Parameters.Get("sessionId", env.SessionAttributes["sessionId"]),
		Country:   env.Parameters.Get("country", env.SessionAttributes["country"]),
	}
	if extractReq.Bucket == "" {
		extractReq.Bucket = s.defaultBucket
	}

	outcome := ChainOutcome{Diagnostics: Diagnostics{
		Called:      "extract",
		AutoChained: true,
		MergedParams: mergedParams(map[string]string{
			"bucket":    extractReq.Bucket,
			"key":       extractReq.Key,
			"sessionId": extractReq.SessionID,
			"country":   extractReq.Country,
		}),
	}}

	extraction, err := s.extractStage(ctx, extractReq)
	if err != nil {
		return s.failure(env, "extract", err)
	}
	outcome.Extraction = extraction

	if extraction.Status != domain.StatusOK || !extraction.Identity.IsResolved() {
		s.metrics.IncrementDispatch("extract", string(extraction.Status))
		return s.chainResult(env, outcome)
	}

	verification, err := s.verifyStage(ctx, registry.VerifyRequest{
		NationalID:  extraction.Identity.NationalID,
		Country:     string(extraction.Identity.Country),
		FirstName:   env.Parameters.Get("firstName", ""),
		LastName:    env.Parameters.Get("lastName", ""),
		DateOfBirth: env.Parameters.Get("dateOfBirth", ""),
	})
	if err != nil {
		return s.failure(env, "verify", err)
	}
	outcome.Verification = &verification

	if !verification.IsVerified() {
		// The document is in but the identity did not clear; the session
		// stays at (or falls back to) UPLOADED.
		env.SessionAttributes[sessionKeyVerificationStatus] = sessionStatusUploaded
		s.metrics.IncrementDispatch("extract", string(verification.Status))
		return s.chainResult(env, outcome)
	}
	s.markVerified(env, extraction.Identity)

	registration, err := s.registerStage(ctx, customer.RegisterRequest{
		VerificationStatus: verification.Status,
		Source:             verification.Source,
		Record:             verification.RegistryRecord,
	})
	if err != nil {
		return s.failure(env, "register", err)
	}
	outcome.Registration = &registration

	s.metrics.IncrementDispatch("extract", string(registration.Status))
	return s.chainResult(env, outcome)
}

func (s *Service) runVerify(ctx context.Context, env Envelope) Result {
	req := registry.VerifyRequest{
		NationalID:  env.Parameters.Get("nationalId", ""),
		Country:     env.Parameters.Get("country", env.SessionAttributes["country"]),
		FirstName:   env.Parameters.Get("firstName", ""),
		LastName:    env.Parameters.Get("lastName", ""),
		DateOfBirth: env.Parameters.Get("dateOfBirth", ""),
	}
	verification, err := s.verifyStage(ctx, req)
	if err != nil {
		return s.failure(env, "verify", err)
	}

	if verification.IsVerified() {
		s.markVerified(env, domain.IdentityClaim{
			NationalID: req.NationalID,
			Country:    domain.CountryFromSource(verification.Source),
		})
	}

	s.metrics.IncrementDispatch("verify", string(verification.Status))
	return Result{
		Function: env.Function,
		Body: mustJSON(verifyBody{
			VerificationResult: verification,
			Diagnostics: Diagnostics{
				Called: "verify",
				MergedParams: mergedParams(map[string]string{
					"nationalId": req.NationalID,
					"country":    req.Country,
				}),
			},
		}),
		SessionAttributes:       env.SessionAttributes,
		PromptSessionAttributes: env.PromptSessionAttributes,
	}
}

func (s *Service) runRegister(ctx context.Context, env Envelope) Result {
	req := customer.RegisterRequest{
		VerificationStatus: domain.Status(env.Parameters.Get("verificationStatus", env.Parameters.Get("status", ""))),
		Source:             env.Parameters.Get("source", ""),
	}
	if nationalID := env.Parameters.Get("nationalId", ""); nationalID != "" {
		req.Record = &domain.RegistryRecord{
			NationalID:  nationalID,
			FirstName:   env.Parameters.Get("firstName", ""),
			LastName:    env.Parameters.Get("lastName", ""),
			DateOfBirth: env.Parameters.Get("dateOfBirth", ""),
		}
	}

	registration, err := s.registerStage(ctx, req)
	if err != nil {
		return s.failure(env, "register", err)
	}

	s.metrics.IncrementDispatch("register", string(registration.Status))
	return Result{
		Function: env.Function,
		Body: mustJSON(registerBody{
			RegistrationResult: registration,
			Diagnostics: Diagnostics{
				Called: "register",
				MergedParams: mergedParams(map[string]string{
					"nationalId":         env.Parameters.Get("nationalId", ""),
					"source":             req.Source,
					"verificationStatus": string(req.VerificationStatus),
				}),
			},
		}),
		SessionAttributes:       env.SessionAttributes,
		PromptSessionAttributes: env.PromptSessionAttributes,
	}
}

// mergedParams drops empty values so diagnostics only report what was
// actually resolved.
func mergedParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for name, value := range params {
		if value != "" {
			out[name] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Service) extractStage(ctx context.Context, req extract.Request) (extract.Result, error) {
	ctx, span := s.tracer.Start(ctx, "stage.extract")
	defer span.End()
	start := s.now()
	result, err := s.invoker.Extract(ctx, req)
	s.metrics.ObserveStageLatency("extract", s.now().Sub(start))
	return result, err
}

func (s *Service) verifyStage(ctx context.Context, req registry.VerifyRequest) (domain.VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, "stage.verify")
	defer span.End()
	start := s.now()
	result, err := s.invoker.Verify(ctx, req)
	s.metrics.ObserveStageLatency("verify", s.now().Sub(start))
	return result, err
}

func (s *Service) registerStage(ctx context.Context, req customer.RegisterRequest) (domain.RegistrationResult, error) {
	ctx, span := s.tracer.Start(ctx, "stage.register")
	defer span.End()
	start := s.now()
	result, err := s.invoker.Register(ctx, req)
	s.metrics.ObserveStageLatency("register", s.now().Sub(start))
	if err == nil && result.Status == domain.StatusRegistered {
		s.metrics.IncrementCustomersRegistered()
	}
	return result, err
}

// markVerified records the verification in session state and leaves a
// redacted trace for prompt construction. Full identifiers never enter the
// prompt attributes.
func (s *Service) markVerified(env Envelope, identity domain.IdentityClaim) {
	env.SessionAttributes[sessionKeyVerificationStatus] = string(domain.StatusVerified)
	env.PromptSessionAttributes[promptKeyLast4] = identity.Last4()
	env.PromptSessionAttributes[promptKeyCountry] = string(identity.Country)
}

func (s *Service) chainResult(env Envelope, outcome ChainOutcome) Result {
	return Result{
		Function:                env.Function,
		Body:                    mustJSON(outcome),
		SessionAttributes:       env.SessionAttributes,
		PromptSessionAttributes: env.PromptSessionAttributes,
	}
}

func (s *Service) failure(env Envelope, component string, err error) Result {
	s.log.Error("stage invocation failed",
		slog.String("component", component),
		slog.String("error", err.Error()))
	s.metrics.IncrementDispatch(env.Function, StateFailure)
	return Result{
		Function:      env.Function,
		ResponseState: StateFailure,
		Body: mustJSON(map[string]string{
			"status":    StateFailure,
			"component": component,
			"reason":    err.Error(),
		}),
		SessionAttributes:       env.SessionAttributes,
		PromptSessionAttributes: env.PromptSessionAttributes,
	}
}

// publishAudit emits one event per dispatch. Best effort: a publish failure
// is logged and never affects the dispatch result.
func (s *Service) publishAudit(ctx context.Context, env Envelope, result Result) {
	if s.publisher == nil {
		return
	}
	event := audit.Event{
		EventID:    uuid.NewString(),
		SessionID:  env.Parameters.Get("sessionId", env.SessionAttributes["sessionId"]),
		Function:   env.Function,
		Status:     dispatchStatus(result),
		Country:    env.PromptSessionAttributes[promptKeyCountry],
		NationalID: audit.Redact(dispatchNationalID(env, result)),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("audit publish failed", slog.String("error", err.Error()))
	}
}

// dispatchNationalID pulls the identifier touched by this dispatch, for
// redacted inclusion in the audit event.
func dispatchNationalID(env Envelope, result Result) string {
	var chain ChainOutcome
	if err := json.Unmarshal(result.Body, &chain); err == nil && chain.Extraction.Identity.NationalID != "" {
		return chain.Extraction.Identity.NationalID
	}
	return env.Parameters.Get("nationalId", "")
}

// dispatchStatus digs the terminal status out of a result body.
func dispatchStatus(result Result) domain.Status {
	if result.ResponseState != "" {
		return domain.Status(result.ResponseState)
	}
	var chain ChainOutcome
	if err := json.Unmarshal(result.Body, &chain); err == nil {
		switch {
		case chain.Registration != nil:
			return chain.Registration.Status
		case chain.Verification != nil:
			return chain.Verification.Status
		case chain.Extraction.Status != "":
			return chain.Extraction.Status
		}
	}
	var plain struct {
		Status domain.Status `json:"status"`
	}
	if err := json.Unmarshal(result.Body, &plain); err == nil && plain.Status != "" {
		return plain.Status
	}
	return domain.StatusError
}

func mustJSON(v any) json.RawMessage {
	payload, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{"status":"ERROR","reason":"encode result"}`)
	}
	return payload
}
