package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
)

// envelope is the response wrapper every backend endpoint uses. Data is
// unwrapped before callers see it.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError carries a backend-reported failure. The message is surfaced
// verbatim; the backend owns the wording.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// Client talks to the remote trip backend. Every request carries the
// bearer token (when logged in) and the device identifier header. A 401
// triggers a single-flight token refresh; concurrent failures wait on the
// same refresh and retry once with the new token.
type Client struct {
	baseURL  string
	http     *http.Client
	deviceID string
	logger   *slog.Logger

	tokens       *tokenStore
	refreshGroup singleflight.Group
}

func New(baseURL, deviceID string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		deviceID: deviceID,
		logger:   logger,
		tokens:   newTokenStore(),
	}
}

// SetTokens seeds the client with an existing token pair, e.g. after login.
func (c *Client) SetTokens(access, refresh string) {
	c.tokens.set(access, refresh)
}

// ClearTokens drops the session, e.g. after logout.
func (c *Client) ClearTokens() {
	c.tokens.clear()
}

// LoggedIn reports whether the client currently holds a session.
func (c *Client) LoggedIn() bool {
	access, _ := c.tokens.get()
	return access != ""
}

// do issues one backend request and decodes the enveloped response into
// out (which may be nil for endpoints without a payload).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	// An access token that is already past its exp claim will bounce
	// anyway, so refresh up front instead of burning a round-trip. The
	// refresh call itself must not re-enter the refresh group.
	if access, refresh := c.tokens.get(); path != refreshPath && access != "" && refresh != "" && c.tokens.accessExpired() {
		if err := c.refreshTokens(ctx); err != nil {
			c.logger.WarnContext(ctx, "Proactive token refresh failed", slog.Any("error", err))
		}
	}

	resp, raw, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_, refresh := c.tokens.get()
		if refresh == "" || path == refreshPath {
			return c.decodeError(resp.StatusCode, raw)
		}
		if err := c.refreshTokens(ctx); err != nil {
			return fmt.Errorf("session refresh failed: %w", err)
		}
		resp, raw, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	if env.Status != "success" {
		return &APIError{StatusCode: resp.StatusCode, Status: env.Status, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode backend payload: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Device-ID", c.deviceID)
	if access, _ := c.tokens.get(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.Get().BackendRequestsTotal.Add(ctx, 1)
	metrics.Get().BackendRequestDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	return resp, raw, nil
}

// refreshTokens performs the single-flight refresh. However many requests
// hit a 401 at once, exactly one refresh call goes out; the rest share its
// result.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("token-refresh", func() (interface{}, error) {
		_, refresh := c.tokens.get()
		if refresh == "" {
			return nil, fmt.Errorf("no refresh token available")
		}

		c.logger.DebugContext(ctx, "Refreshing session tokens")
		metrics.Get().TokenRefreshesTotal.Add(ctx, 1)

		pair, err := c.callRefresh(ctx, refresh)
		if err != nil {
			return nil, err
		}
		c.tokens.set(pair.AccessToken, pair.RefreshToken)
		return nil, nil
	})
	return err
}

func (c *Client) decodeError(statusCode int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && (env.Message != "" || env.Status != "") {
		return &APIError{StatusCode: statusCode, Status: env.Status, Message: env.Message}
	}
	return &APIError{StatusCode: statusCode}
}
