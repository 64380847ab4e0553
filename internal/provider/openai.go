package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "go-produce-analyzer/internal/errors"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAI calls the chat completions API with the instruction text and
// the image attached as a base64 data URL.
type OpenAI struct {
	apiKey   string
	model    string
	endpoint string
	httpc    *http.Client
}

func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultOpenAIEndpoint,
		httpc:    newHTTPClient(timeout),
	}
}

// NewOpenAIWithEndpoint targets a non-default endpoint. Used by tests
// and by proxy deployments.
func NewOpenAIWithEndpoint(apiKey, model, endpoint string, timeout time.Duration) *OpenAI {
	e := NewOpenAI(apiKey, model, timeout)
	e.endpoint = endpoint
	return e
}

func (e *OpenAI) Name() string { return "openai" }

func (e *OpenAI) Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	if e.apiKey == "" {
		return "", apperrors.NewConfigurationError("OPENAI_API_KEY not set", nil)
	}

	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)

	body := map[string]any{
		"model": e.model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": instruction},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL, "detail": "high"}},
				},
			},
		},
		"max_tokens":  500,
		"temperature": 0.2,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewInternalError("openai: building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", classifyTransportError("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", classifyStatus("openai", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", apperrors.NewMalformedResponseError("openai: undecodable completion envelope", "", err)
	}
	if len(raw.Choices) == 0 {
		return "", apperrors.NewMalformedResponseError("openai: empty completion", "", fmt.Errorf("no choices"))
	}
	return strings.TrimSpace(raw.Choices[0].Message.Content), nil
}
