// Package orchestrator routes invocation envelopes to the onboarding pipeline
// stages and runs the extract-verify-register chain.
package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxUnwrapDepth bounds how many nested response bodies are peeled off an
// incoming payload. Two levels cover a stage response forwarded by another
// stage; anything deeper is treated as payload, not wrapping.
const maxUnwrapDepth = 2

// Envelope is the normalized invocation request. Parameters accept both the
// object form {"bucket": "b"} and the list form [{"name": "bucket",
// "value": "b"}] on the wire.
type Envelope struct {
	Function                string            `json:"function"`
	Parameters              Parameters        `json:"parameters"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
}

// Parameters is a flat string map of invocation arguments.
type Parameters map[string]string

// UnmarshalJSON accepts either a JSON object of values or a list of
// {name, value} pairs. Non-string values are rendered with fmt.Sprint.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*p = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var pairs []struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		}
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("decode parameter list: %w", err)
		}
		out := make(Parameters, len(pairs))
		for _, pair := range pairs {
			if pair.Name == "" {
				continue
			}
			out[pair.Name] = stringify(pair.Value)
		}
		*p = out
		return nil
	}

	var object map[string]any
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("decode parameter object: %w", err)
	}
	out := make(Parameters, len(object))
	for name, value := range object {
		out[name] = stringify(value)
	}
	*p = out
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Get returns the named parameter, or fallback when absent or empty.
func (p Parameters) Get(name, fallback string) string {
	if v, ok := p[name]; ok && v != "" {
		return v
	}
	return fallback
}

// ParseEnvelope decodes an invocation payload, first unwrapping nested
// response bodies. Upstream stages wrap their output as {"body": ...} where
// the body may itself be a JSON-encoded string; both forms are peeled off, up
// to maxUnwrapDepth levels.
func ParseEnvelope(payload []byte) (Envelope, error) {
	unwrapped := UnwrapBody(payload, maxUnwrapDepth)
	var env Envelope
	if err := json.Unmarshal(unwrapped, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.SessionAttributes == nil {
		env.SessionAttributes = map[string]string{}
	}
	if env.PromptSessionAttributes == nil {
		env.PromptSessionAttributes = map[string]string{}
	}
	return env, nil
}

// UnwrapBody strips up to depth levels of {"body": ...} wrapping, where the
// body value may be an object or a JSON-encoded string. Payloads without a
// body field pass through untouched.
func UnwrapBody(payload []byte, depth int) []byte {
	for range depth {
		var wrapper struct {
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil || len(wrapper.Body) == 0 {
			return payload
		}
		inner := wrapper.Body
		var encoded string
		if err := json.Unmarshal(inner, &encoded); err == nil {
			inner = []byte(encoded)
		}
		payload = inner
	}
	return payload
}
