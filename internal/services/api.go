package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Lalka12235/TuneWave/internal/session"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"golang.org/x/time/rate"
)

// Client provides typed HTTP access to the TuneWave backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Store
	limiter    *rate.Limiter
}

// NewClient creates a backend client. The session store supplies the bearer
// token for authenticated calls; a nil store behaves as unauthenticated.
// The built-in limiter mirrors the backend's per-route rate limits so a
// burst of refreshes cannot trip 429 responses.
func NewClient(baseURL string, client *http.Client, store session.Store) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if store == nil {
		store = session.NewMemoryStore("")
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		session:    store,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// ValidationError is one entry of the structured `detail` list the backend
// returns for request validation failures.
type ValidationError struct {
	Msg string `json:"msg"`
}

// APIError is a server-reported failure, decoded from the response body's
// `detail` field. Detail holds the plain-string form; Validation holds the
// structured list form. At most one is set.
type APIError struct {
	StatusCode int
	Detail     string
	Validation []ValidationError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message())
}

// Message returns the human-readable failure text: the first structured
// validation message when the list form is present, the plain detail
// otherwise, and a generic fallback when the body carried neither.
func (e *APIError) Message() string {
	if len(e.Validation) > 0 && e.Validation[0].Msg != "" {
		return e.Validation[0].Msg
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// decodeError turns a non-success response body into an APIError. The
// `detail` field is duck-typed upstream (string or list of {msg}); both
// shapes are handled here and nowhere else.
func decodeError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var validation []ValidationError
	if err := json.Unmarshal(envelope.Detail, &validation); err == nil {
		apiErr.Validation = validation
	}

	return apiErr
}

// do performs one round trip. Authenticated requests carry the session
// token as a bearer header; a 401 response clears the stored token so the
// next startup lands on the login flow.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}

	var token string
	if authed {
		var ok bool
		token, ok = c.session.Get()
		if !ok {
			return shared.ErrNotAuthenticated
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if authed && resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
			return fmt.Errorf("%w: %w", shared.ErrSessionCleared, decodeError(resp.StatusCode, respBody))
		}
		return decodeError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Get performs a raw GET against the backend and returns the body verbatim.
// Used by the `api` escape-hatch commands.
func (c *Client) Get(ctx context.Context, path string) ([]byte, int, error) {
	return c.raw(ctx, http.MethodGet, path, nil)
}

// Post performs a raw POST with a JSON body against the backend.
func (c *Client) Post(ctx context.Context, path string, data []byte) ([]byte, int, error) {
	return c.raw(ctx, http.MethodPost, path, data)
}

func (c *Client) raw(ctx context.Context, method, path string, data []byte) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("request cancelled: %w", err)
	}

	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
