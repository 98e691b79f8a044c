// Package lookup is the client for the external passage-lookup service.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bdobrica/Selah/common/retry"
)

const (
	// DefaultBaseURL is the public passage-lookup endpoint.
	DefaultBaseURL = "https://labs.bible.org"

	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps how much of a response body is read. Even a long
	// passage run is far below this.
	maxBodyBytes = 1 << 20
)

// Config configures the lookup client.
type Config struct {
	// BaseURL overrides the service endpoint. Defaults to DefaultBaseURL.
	BaseURL string
	// Timeout is the per-request HTTP timeout. Defaults to 15 s.
	Timeout time.Duration
	// Retry controls the backoff policy across attempts. Zero value uses
	// retry.DefaultConfig.
	Retry retry.Config
}

// Client fetches passage bodies over HTTP. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Config
}

// statusError marks a non-2xx response so the retry predicate can tell
// server-side failures (retryable) from rejected requests.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("lookup service returned status %d", e.code)
}

// New creates a lookup Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig
	}
	cfg.Retry.ShouldRetry = func(err error) bool {
		var se *statusError
		if errors.As(err, &se) {
			return se.code >= 500
		}
		return true
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		retry:   cfg.Retry,
	}
}

// FetchPassage retrieves the HTML body for a canonical query produced by the
// reference extractor. The query's "+" separators are already in the form
// the service expects, so the URL is assembled verbatim rather than escaped.
// An invalid passage yields an empty or error-shaped body, not an error;
// errors mean the service itself could not be reached.
func (c *Client) FetchPassage(ctx context.Context, query string) (string, error) {
	url := fmt.Sprintf("%s/api/?passage=%s&formatting=full", c.baseURL, query)

	var body string
	err := retry.Do(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build lookup request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("lookup request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &statusError{code: resp.StatusCode}
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read lookup response: %w", err)
		}
		body = string(raw)
		return nil
	})
	if err != nil {
		slog.Error("passage lookup failed", "query", query, "err", err)
		return "", err
	}

	slog.Debug("passage lookup ok", "query", query, "bytes", len(body))
	return body, nil
}
