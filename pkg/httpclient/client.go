package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// Config holds HTTP client settings.
type Config struct {
	Timeout       time.Duration
	MaxRetries    int
	RetryBaseWait time.Duration
}

// DefaultConfig returns sensible defaults for calling external services.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		MaxRetries:    3,
		RetryBaseWait: 250 * time.Millisecond,
	}
}

// Client is an HTTP client with retries and exponential backoff for
// transient failures. Only idempotent outcomes are retried: network errors
// and 5xx/429 responses.
type Client struct {
	http   *http.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a retrying HTTP client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Do executes the request with retries. The request body, if any, must be
// provided via the body parameter so it can be replayed on each attempt.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt)
			c.logger.DebugContext(ctx, "retrying request",
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("request %s %s: %w", method, url, ctx.Err())
			case <-time.After(wait):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("build request %s %s: %w", method, url, err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Drain and close so the connection can be reused before retrying.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request %s %s failed after %d attempts: %w", method, url, c.cfg.MaxRetries+1, lastErr)
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (c *Client) backoff(attempt int) time.Duration {
	base := c.cfg.RetryBaseWait << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(base) / 2)) // #nosec G404 -- non-cryptographic jitter
	return base + jitter
}
