package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageFetcher retrieves raw image bytes for analysis. The provider
// needs the original encoded bytes, not a decoded pixel buffer, so
// fetchers return the payload plus its detected content type.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

// HTTPImageFetcher implements ImageFetcher over plain HTTP(S)
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPImageFetcher creates an HTTP image fetcher. maxBytes bounds
// the downloaded payload; timeout bounds each download attempt.
func NewHTTPImageFetcher(maxBytes int64, timeout time.Duration) ImageFetcher {
	transport := &http.Transport{
		// Connection pooling sized for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		maxBytes: maxBytes,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			// Prevent redirects to avoid unexpected behavior
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, */*")
	req.Header.Set("User-Agent", "Go-Produce-Analyzer/1.0")

	// Retry logic (3 attempts): 5xx and transport errors are retried,
	// 4xx client errors fail immediately
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			lastErr = err
			resp = nil
		} else {
			code := resp.StatusCode
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
			if code >= 400 && code < 500 {
				return nil, "", fmt.Errorf("client error: status code %d", code)
			}
			lastErr = fmt.Errorf("server error: status code %d", code)
		}

		if attempt < 2 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}

	if resp == nil {
		if lastErr != nil {
			return nil, "", fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
		}
		return nil, "", fmt.Errorf("failed to fetch image after 3 attempts: unknown error")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading image body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, "", fmt.Errorf("image exceeds %d byte limit", h.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image body")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
