// ABOUTME: HTTP client for the Nordflytt CRM REST backend
// ABOUTME: Handles bearer auth, request timeouts, and strict envelope decoding
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds every backend call. The backend has no SLA; a stuck
// request must not hang a store operation indefinitely.
const requestTimeout = 30 * time.Second

// TokenSource yields the bearer token attached to every request. It matches
// oauth2.TokenSource's Token method so an oauth2 source can be used directly.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the /api/crm endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client for the given backend base URL. A nil tokens
// source sends unauthenticated requests.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
	}
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.Code)
}

// DecodeError is returned when a response body does not match the expected
// envelope. The contract is one fixed shape per endpoint; anything else fails
// loudly instead of being coerced to an empty list.
type DecodeError struct {
	Path string
	Key  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: decoding response: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: response missing %q envelope", e.Path, e.Key)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// do issues one request and returns the response body. The context carries
// the caller's cancellation; the request additionally gets the fixed timeout.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("resolving auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// doMultipart issues a multipart/form-data POST (document uploads).
func (c *Client) doMultipart(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("resolving auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("POST %s: reading response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: http.MethodPost, Path: path, Code: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
