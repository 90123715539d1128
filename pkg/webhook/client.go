package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 4096
)

// ErrMissingURL is returned when no webhook URL is configured.
var ErrMissingURL = errors.New("webhook: URL not configured")

// StatusError reports a non-2xx reply from the webhook receiver.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("n8n webhook responded with status: %d", e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSigningSecret signs every body with HMAC-SHA256 in SignatureHeader.
func WithSigningSecret(secret string) Option {
	return func(c *Client) {
		c.secret = secret
	}
}

// Client posts form data to webhook receivers. One attempt per call.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	secret     string
}

// NewClient creates a webhook client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends data as the JSON body to url. The receiver's reply body is
// discarded on success.
func (c *Client) Post(ctx context.Context, url string, data json.RawMessage) error {
	if url == "" {
		return ErrMissingURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set(SignatureHeader, Sign(c.secret, data))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "n8n webhook request failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	// Drain remainder for connection reuse.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.DebugContext(ctx, "n8n webhook ok",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)))
		return nil
	}

	slog.ErrorContext(ctx, "n8n webhook error",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(respBody)),
		slog.Duration("duration", time.Since(start)))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
}
