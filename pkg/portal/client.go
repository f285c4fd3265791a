package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "http://localhost:5000"

// Client talks to the portal REST API. The zero value is not usable;
// construct one with NewClient.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for the given base URL. An empty baseURL
// falls back to PORTAL_API_URL, then to the local development server.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("PORTAL_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// do is the single funnel for every request: it serializes the body,
// attaches the bearer token, decodes the response into out and maps
// non-2xx statuses onto the package error types.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Status: 0, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &RequestError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: 0, Message: err.Error()}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return mapStatus(resp.StatusCode, raw)
}

func mapStatus(status int, raw []byte) error {
	var payload struct {
		Code    string `json:"error_code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &payload)

	switch status {
	case http.StatusUnauthorized:
		return &AuthError{Code: payload.Code, Message: payload.Message}
	case http.StatusBadRequest:
		return &ValidationError{Field: payload.Code, Message: payload.Message}
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", payload.Code, ErrNotFound)
	case http.StatusConflict:
		return &ConflictError{Code: payload.Code, Message: payload.Message}
	default:
		return &RequestError{Status: status, Code: payload.Code, Message: payload.Message}
	}
}
