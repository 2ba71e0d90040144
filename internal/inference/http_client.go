package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"nordkyc/internal/platform/config"
	pkgerrors "nordkyc/pkg/domain-errors"
)

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewHTTPClient builds a client from inference config.
func NewHTTPClient(cfg config.Inference) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat json.RawMessage `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
			Refusal *string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one chat completion with the document image attached.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, pkgerrors.New(pkgerrors.CodeUnavailable, "inference API key not configured")
	}

	userParts := []contentPart{{Type: "text", Text: req.User}}
	if req.ImageDataURI != "" {
		userParts = append(userParts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: req.ImageDataURI}})
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: userParts},
		},
		Temperature:    0,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: req.ResponseShape,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Completion{}, fmt.Errorf("encode inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("build inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Completion{}, pkgerrors.Wrap(pkgerrors.CodeUnavailable, "inference call failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Completion{}, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Completion{}, pkgerrors.Newf(pkgerrors.CodeUnavailable, "inference returned HTTP %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Completion{}, pkgerrors.Wrap(pkgerrors.CodeInternal, "malformed inference response", err)
	}
	if len(parsed.Choices) == 0 {
		return Completion{Raw: string(raw)}, nil
	}

	out := Completion{Raw: string(raw)}
	msg := parsed.Choices[0].Message
	if msg.Content != nil {
		out.Content = *msg.Content
	}
	if msg.Refusal != nil {
		out.Refusal = *msg.Refusal
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...<truncated>"
}
