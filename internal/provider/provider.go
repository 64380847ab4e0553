// Package provider implements inference engines for the external
// vision-language services the analysis pipeline delegates to.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "go-produce-analyzer/internal/errors"
)

// newHTTPClient builds a client tuned for single JSON round trips to a
// provider API: tiny idle pool, bounded handshake and header waits.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// classifyTransportError wraps a failed round trip. Timeouts and
// network errors are transient; the orchestrator may retry them once.
func classifyTransportError(name string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.NewProviderTransientError(name+" request failed", err)
}

// classifyStatus wraps a non-200 provider status. 429 and 5xx are
// transient; other rejections (bad key, content policy) are hard
// failures for the analysis kind and are not retried.
func classifyStatus(name string, status int, body string) error {
	err := fmt.Errorf("%s: status %d: %s", name, status, body)
	if status == http.StatusTooManyRequests || status >= 500 {
		return apperrors.NewProviderTransientError(name+" unavailable", err)
	}
	return apperrors.NewInternalError(name+" rejected the request", err)
}
