package skuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://localhost:8080/api"
	// DefaultLoginPath is appended to the base URL for logins.
	DefaultLoginPath = "/auth/login"
)

// maxResponseSize is the maximum allowed response body size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds SKU backend client configuration.
type Config struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
	Debug     bool
}

// Authorizer supplies the headers that authenticate a request.
type Authorizer interface {
	AuthHeader() map[string]string
}

// Client talks to the SKU backend. It performs no retries; every failure is
// returned once as ErrUnauthorized, *ValidationError or *TransportError.
type Client struct {
	httpClient *http.Client
	config     Config
	auth       Authorizer
}

// NewClient creates a new SKU backend client.
func NewClient(config Config, auth Authorizer) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.LoginPath == "" {
		config.LoginPath = DefaultLoginPath
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		auth:       auth,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// doRequest sends body as JSON to path and decodes a 2xx response into
// result. result may be nil when the body is not needed.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body any, result any, authed bool) error {
	url := c.config.BaseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
	}

	requestID := uuid.New().String()[:8]
	if c.config.Debug {
		ev := log.Debug().
			Str("request_id", requestID).
			Str("method", method).
			Str("endpoint", url)
		if payload != nil {
			ev = ev.RawJSON("request", sanitizeForLog(payload))
		}
		ev.Msg("[SKUAPI] Outgoing request")
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.auth != nil {
		for k, v := range c.auth.AuthHeader() {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.config.Debug {
		ev := log.Debug().
			Str("request_id", requestID).
			Str("endpoint", path).
			Int("status_code", resp.StatusCode)
		if json.Valid(respBody) {
			ev = ev.RawJSON("response", sanitizeForLog(respBody))
		}
		ev.Msg("[SKUAPI] Incoming response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &ValidationError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)}
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// sanitizeForLog masks credentials in a JSON payload before it is logged.
func sanitizeForLog(data []byte) []byte {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		// arrays and scalars carry no credentials
		return data
	}
	for key := range obj {
		k := strings.ToLower(key)
		if strings.Contains(k, "password") || strings.Contains(k, "token") {
			obj[key] = "***MASKED***"
		}
	}
	sanitized, err := json.Marshal(obj)
	if err != nil {
		return []byte(`{"_error": "failed to marshal sanitized data"}`)
	}
	return sanitized
}
