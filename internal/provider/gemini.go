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

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1/models"

// Gemini calls the generateContent API with the instruction text and
// the image as inline data.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	httpc    *http.Client
}

func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultGeminiEndpoint,
		httpc:    newHTTPClient(timeout),
	}
}

// NewGeminiWithEndpoint targets a non-default endpoint, for tests
func NewGeminiWithEndpoint(apiKey, model, endpoint string, timeout time.Duration) *Gemini {
	e := NewGemini(apiKey, model, timeout)
	e.endpoint = endpoint
	return e
}

func (e *Gemini) Name() string { return "gemini" }

func (e *Gemini) Analyze(ctx context.Context, instruction string, image []byte, contentType string) (string, error) {
	if e.apiKey == "" {
		return "", apperrors.NewConfigurationError("GEMINI_API_KEY not set", nil)
	}

	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": instruction},
					map[string]any{"inline_data": map[string]any{
						"mime_type": contentType,
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
		"generationConfig": map[string]any{"temperature": 0.2, "maxOutputTokens": 500},
	}
	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", e.endpoint, e.model, e.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewInternalError("gemini: building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", classifyTransportError("gemini", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", classifyStatus("gemini", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.NewMalformedResponseError("gemini: undecodable response envelope", "", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewMalformedResponseError("gemini: empty candidates", "", fmt.Errorf("no candidates"))
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
