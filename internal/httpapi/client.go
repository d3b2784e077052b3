package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %s: %s", http.StatusText(e.Status), e.Message)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// Client is the storefront's connection to the remote e-commerce API. It
// attaches the bearer credential to outgoing requests, captures rotated
// tokens from response headers and reports credential rejection so the
// session layer can invalidate itself.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu             sync.Mutex
	token          string
	onTokenRotated func(token string)
	onUnauthorized func()
}

// New creates a Client for the given API base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetToken installs the credential attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the credential from outgoing requests.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the credential currently attached to requests.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnTokenRotated registers a callback invoked when the backend returns a
// replacement token in a response header. The new token is already
// installed on the client when the callback runs.
func (c *Client) OnTokenRotated(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokenRotated = fn
}

// OnUnauthorized registers a callback invoked when the backend rejects the
// credential. The token is already cleared when the callback runs.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// do executes one API call: marshal body, attach credential, capture any
// rotated token, decode the response into out. Each call either fully
// applies or returns an error; there are no partial writes client-side.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.captureRotatedToken(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(path)
		return &Error{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := readErrorMessage(resp.Body)
		c.logger.Warn("API error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// captureRotatedToken persists a replacement token returned by the server.
// The header value may or may not carry the "Bearer " prefix.
func (c *Client) captureRotatedToken(resp *http.Response) {
	rotated := strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer ")
	if rotated == "" {
		return
	}

	c.mu.Lock()
	if rotated == c.token {
		c.mu.Unlock()
		return
	}
	c.token = rotated
	fn := c.onTokenRotated
	c.mu.Unlock()

	c.logger.Debug("Credential rotated by server")
	if fn != nil {
		fn(rotated)
	}
}

// handleUnauthorized treats a 401 as fatal to the current session: the
// credential is dropped and the registered callback redirects to the
// authentication entry point.
func (c *Client) handleUnauthorized(path string) {
	c.mu.Lock()
	c.token = ""
	fn := c.onUnauthorized
	c.mu.Unlock()

	c.logger.Info("Credential rejected by server", zap.String("path", path))
	if fn != nil {
		fn()
	}
}

func readErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
