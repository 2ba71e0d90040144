package orchestrator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nordkyc/internal/audit"
	"nordkyc/internal/blob"
	"nordkyc/internal/customer"
	"nordkyc/internal/domain"
	"nordkyc/internal/extract"
	"nordkyc/internal/inference"
	"nordkyc/internal/platform/logger"
	"nordkyc/internal/registry"
	pkgerrors "nordkyc/pkg/domain-errors"
)

const (
	testBucket = "onboarding-uploads"
	testKey    = "docs/id-card.jpg"
)

// newPipeline assembles the full in-process pipeline behind a LocalInvoker.
func newPipeline(t *testing.T, script *inference.ScriptedClient) (*Service, *audit.InMemoryPublisher) {
	t.Helper()

	blobs := blob.NewInMemoryStore()
	require.NoError(t, blobs.Put(context.Background(), testBucket, testKey, []byte("jpeg-bytes"), "image/jpeg"))

	policy := extract.DefaultPolicy()
	policy.MaxAttempts = 1
	policy.WriteAudit = false

	invoker := &LocalInvoker{
		Extractor: extract.NewService(script, blobs, logger.Discard(), policy, nil),
		Verifier:  registry.NewService(registry.DefaultClients(), nil, logger.Discard(), nil),
		Registrar: customer.NewRegistrar(customer.NewInMemoryStore(), logger.Discard(), nil, "nordkyc.example"),
	}
	publisher := audit.NewInMemoryPublisher()
	return NewService(invoker, publisher, logger.Discard(), nil, testBucket), publisher
}

func chainBody(t *testing.T, result Result) ChainOutcome {
	t.Helper()
	var outcome ChainOutcome
	require.NoError(t, json.Unmarshal(result.Body, &outcome))
	return outcome
}

func TestDispatchChain(t *testing.T) {
	ctx := context.Background()

	t.Run("successful chain registers the customer", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).
			Respond(inference.Completion{Content: `{"nationalId": "123456-7890"}`})
		svc, publisher := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:                "extract",
			Parameters:              Parameters{"bucket": testBucket, "key": testKey, "country": "DK"},
			SessionAttributes:       map[string]string{"verificationStatus": "UPLOADED"},
			PromptSessionAttributes: map[string]string{},
		})

		assert.Empty(t, result.ResponseState)
		outcome := chainBody(t, result)
		assert.Equal(t, domain.StatusOK, outcome.Extraction.Status)
		assert.Equal(t, "123456-7890", outcome.Extraction.Identity.NationalID)
		require.NotNil(t, outcome.Verification)
		assert.Equal(t, domain.StatusVerified, outcome.Verification.Status)
		require.NotNil(t, outcome.Registration)
		assert.Equal(t, domain.StatusRegistered, outcome.Registration.Status)
		assert.Equal(t, "john.doe@nordkyc.example", outcome.Registration.Email)

		assert.Equal(t, "VERIFIED", result.SessionAttributes["verificationStatus"])
		assert.Equal(t, "7890", result.PromptSessionAttributes["verified.last4"])
		assert.Equal(t, "DK", result.PromptSessionAttributes["verified.country"])

		events := publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, domain.StatusRegistered, events[0].Status)
		assert.Equal(t, "****7890", events[0].NationalID)
	})

	t.Run("partial extraction short-circuits the chain", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).Respond(inference.Completion{Content: ""})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:          "extract",
			Parameters:        Parameters{"key": testKey, "country": "DK"},
			SessionAttributes: map[string]string{"verificationStatus": "UPLOADED"},
		})

		outcome := chainBody(t, result)
		assert.Equal(t, domain.StatusPartial, outcome.Extraction.Status)
		assert.Nil(t, outcome.Verification)
		assert.Nil(t, outcome.Registration)
		assert.Equal(t, "UPLOADED", result.SessionAttributes["verificationStatus"])
	})

	t.Run("mismatch stops before registration", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).
			Respond(inference.Completion{Content: `{"nationalId": "123456-7890"}`})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:   "extract",
			Parameters: Parameters{"key": testKey, "country": "DK", "firstName": "Jane"},
		})

		outcome := chainBody(t, result)
		require.NotNil(t, outcome.Verification)
		assert.Equal(t, domain.StatusMismatch, outcome.Verification.Status)
		assert.Nil(t, outcome.Registration)
		assert.Equal(t, "UPLOADED", result.SessionAttributes["verificationStatus"])
	})

	t.Run("empty session reaches UPLOADED on a partial extraction", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).Respond(inference.Completion{Content: ""})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:   "extract",
			Parameters: Parameters{"key": testKey, "country": "DK"},
		})

		outcome := chainBody(t, result)
		assert.Equal(t, domain.StatusPartial, outcome.Extraction.Status)
		assert.Equal(t, "UPLOADED", result.SessionAttributes["verificationStatus"])
	})

	t.Run("mismatch drops a previously verified session back to UPLOADED", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).
			Respond(inference.Completion{Content: `{"nationalId": "123456-7890"}`})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:          "extract",
			Parameters:        Parameters{"key": testKey, "country": "DK", "firstName": "Jane"},
			SessionAttributes: map[string]string{"verificationStatus": "VERIFIED"},
		})

		outcome := chainBody(t, result)
		require.NotNil(t, outcome.Verification)
		assert.Equal(t, domain.StatusMismatch, outcome.Verification.Status)
		assert.Equal(t, "UPLOADED", result.SessionAttributes["verificationStatus"])
	})

	t.Run("default bucket fills in when neither parameter nor session has one", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).
			Respond(inference.Completion{Content: `{"nationalId": "160778-1234"}`})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:   "extract",
			Parameters: Parameters{"key": testKey, "country": "DK"},
		})

		outcome := chainBody(t, result)
		assert.Equal(t, domain.StatusOK, outcome.Extraction.Status)
	})

	t.Run("chain body carries orchestrator diagnostics", func(t *testing.T) {
		script := (&inference.ScriptedClient{}).
			Respond(inference.Completion{Content: `{"nationalId": "123456-7890"}`})
		svc, _ := newPipeline(t, script)

		result := svc.Dispatch(ctx, Envelope{
			Function:   "extract",
			Parameters: Parameters{"key": testKey, "country": "DK"},
		})

		outcome := chainBody(t, result)
		assert.Equal(t, "extract", outcome.Diagnostics.Called)
		assert.True(t, outcome.Diagnostics.AutoChained)
		assert.Equal(t, testBucket, outcome.Diagnostics.MergedParams["bucket"])
		assert.Equal(t, testKey, outcome.Diagnostics.MergedParams["key"])
		assert.Equal(t, "DK", outcome.Diagnostics.MergedParams["country"])
	})
}

func TestDispatchRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown function reprompts", func(t *testing.T) {
		svc, publisher := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{Function: "transfer_funds"})

		assert.Equal(t, StateReprompt, result.ResponseState)
		assert.Contains(t, string(result.Body), "Unknown function 'transfer_funds'")

		events := publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, domain.Status(StateReprompt), events[0].Status)
	})

	t.Run("fully qualified action names route to stages", func(t *testing.T) {
		svc, _ := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{
			Function:   "verify_identity",
			Parameters: Parameters{"nationalId": "47010112345", "country": "NO"},
		})

		var verification domain.VerificationResult
		require.NoError(t, json.Unmarshal(result.Body, &verification))
		assert.Equal(t, domain.StatusVerified, verification.Status)
	})

	t.Run("pass-through body carries orchestrator diagnostics", func(t *testing.T) {
		svc, _ := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{
			Function:          "verify",
			Parameters:        Parameters{"nationalId": "47010112345"},
			SessionAttributes: map[string]string{"country": "NO"},
		})

		var body struct {
			Status      domain.Status `json:"status"`
			Diagnostics Diagnostics   `json:"_orchestrator"`
		}
		require.NoError(t, json.Unmarshal(result.Body, &body))
		assert.Equal(t, domain.StatusVerified, body.Status)
		assert.Equal(t, "verify", body.Diagnostics.Called)
		assert.False(t, body.Diagnostics.AutoChained)
		assert.Equal(t, "47010112345", body.Diagnostics.MergedParams["nationalId"])
		assert.Equal(t, "NO", body.Diagnostics.MergedParams["country"])
	})

	t.Run("verify dispatch updates session state", func(t *testing.T) {
		svc, _ := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{
			Function:          "verify",
			Parameters:        Parameters{"nationalId": "19800101-1230", "country": "SE", "firstName": "Anna"},
			SessionAttributes: map[string]string{"verificationStatus": "UPLOADED"},
		})

		assert.Equal(t, "VERIFIED", result.SessionAttributes["verificationStatus"])
		assert.Equal(t, "1230", result.PromptSessionAttributes["verified.last4"])
		assert.Equal(t, "SE", result.PromptSessionAttributes["verified.country"])
	})

	t.Run("register dispatch creates a customer from parameters", func(t *testing.T) {
		svc, _ := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{
			Function: "register_customer",
			Parameters: Parameters{
				"verificationStatus": "VERIFIED",
				"source":             "denmark",
				"nationalId":         "123456-7890",
				"firstName":          "John",
				"lastName":           "Doe",
				"dateOfBirth":        "1985-04-12",
			},
		})

		var registration domain.RegistrationResult
		require.NoError(t, json.Unmarshal(result.Body, &registration))
		assert.Equal(t, domain.StatusRegistered, registration.Status)
		assert.Equal(t, "john.doe@nordkyc.example", registration.Email)

		var body struct {
			Diagnostics Diagnostics `json:"_orchestrator"`
		}
		require.NoError(t, json.Unmarshal(result.Body, &body))
		assert.Equal(t, "register", body.Diagnostics.Called)
		assert.Equal(t, "denmark", body.Diagnostics.MergedParams["source"])
		assert.Equal(t, "VERIFIED", body.Diagnostics.MergedParams["verificationStatus"])
	})

	t.Run("register dispatch without verification is rejected", func(t *testing.T) {
		svc, _ := newPipeline(t, &inference.ScriptedClient{})

		result := svc.Dispatch(ctx, Envelope{
			Function:   "register",
			Parameters: Parameters{"nationalId": "123456-7890"},
		})

		var registration domain.RegistrationResult
		require.NoError(t, json.Unmarshal(result.Body, &registration))
		assert.Equal(t, domain.StatusError, registration.Status)
		assert.Equal(t, "Identity must be VERIFIED before registration.", registration.Reason)
	})
}

func TestDispatchTransportFailure(t *testing.T) {
	ctx := context.Background()
	failing := &failingInvoker{err: pkgerrors.New(pkgerrors.CodeUnavailable, "verify endpoint unreachable")}
	svc := NewService(failing, nil, logger.Discard(), nil, testBucket)

	result := svc.Dispatch(ctx, Envelope{
		Function:   "verify",
		Parameters: Parameters{"nationalId": "123456-7890", "country": "DK"},
	})

	assert.Equal(t, StateFailure, result.ResponseState)

	var body struct {
		Status    string `json:"status"`
		Component string `json:"component"`
		Reason    string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(result.Body, &body))
	assert.Equal(t, StateFailure, body.Status)
	assert.Equal(t, "verify", body.Component)
	assert.Contains(t, body.Reason, "unreachable")
}

type failingInvoker struct {
	err error
}

func (i *failingInvoker) Extract(context.Context, extract.Request) (extract.Result, error) {
	return extract.Result{}, i.err
}

func (i *failingInvoker) Verify(context.Context, registry.VerifyRequest) (domain.VerificationResult, error) {
	return domain.VerificationResult{}, i.err
}

func (i *failingInvoker) Register(context.Context, customer.RegisterRequest) (domain.RegistrationResult, error) {
	return domain.RegistrationResult{}, i.err
}
