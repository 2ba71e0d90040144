// Package inference wraps the OCR/LLM collaborator. The model is a black box:
// bytes plus a prompt in, a structured or free-text answer out, fallible and
// untrusted. Callers own all validation of what comes back.
package inference

import (
	"context"
	"encoding/json"
)

// Request describes one completion call.
type Request struct {
	System       string
	User         string
	ImageDataURI string
	// ResponseShape is the provider-specific response_format payload, e.g. a
	// JSON schema for strict extraction or {"type":"json_object"} for the
	// permissive candidate scan.
	ResponseShape json.RawMessage
	MaxTokens     int
}

// Completion is the collaborator's answer. Exactly one of Content or Refusal
// is normally populated; both empty means the model returned nothing usable.
type Completion struct {
	Content string
	Refusal string
	// Raw carries the full response body for audit artifacts.
	Raw string
}

// Client is the inference collaborator contract.
type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}
