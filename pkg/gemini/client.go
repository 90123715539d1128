package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"

	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 4096
	maxResponseSize  = 8 << 20
)

var (
	ErrMissingAPIKey   = errors.New("gemini: API key not configured")
	ErrMissingEndpoint = errors.New("gemini: endpoint not configured")
)

// StatusError reports a non-2xx reply. Body is truncated and stays
// server-side.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini API responded with status: %d", e.StatusCode)
}

// Endpoint builds the generateContent URL for model, without the key.
func Endpoint(baseURL, model string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return strings.TrimRight(baseURL, "/") + "/v1beta/models/" + url.PathEscape(model) + ":generateContent"
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

// Client calls the Gemini generateContent REST API.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a Gemini client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt as a single user turn to endpoint and returns the
// extracted text. The API key travels only in the query string.
func (c *Client) Generate(ctx context.Context, endpoint, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if endpoint == "" {
		return "", ErrMissingEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(NewUserRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redact(err)
		slog.ErrorContext(ctx, "gemini request failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		// Drain remainder for connection reuse.
		io.Copy(io.Discard, resp.Body)
		slog.ErrorContext(ctx, "gemini API error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(errBody)),
			slog.Duration("duration", time.Since(start)))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	// Only a body that is not JSON, or is null, fails here; any other shape
	// decodes and falls back in ExtractText.
	var raw json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", errors.New("decode response: null body")
	}

	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	slog.DebugContext(ctx, "gemini call ok",
		slog.Int("candidates", len(out.Candidates)),
		slog.Duration("duration", time.Since(start)))

	return ExtractText(&out), nil
}

// redact strips the query string from URLs embedded in transport errors so
// the API key never reaches logs or callers.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		} else {
			ue.URL = "<redacted>"
		}
	}
	return err
}
