// Package api is the typed client for the dashboard backend: one method per
// endpoint, JSON in and out, errors decoded into *Error. It owns the cookie
// jar the backend's auth cookie lives in, and hands the stream packages the
// websocket URLs they dial.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Error is a non-2xx backend response. Detail carries whatever the server
// put in its `detail` or `message` field.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server responded %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server responded %d: %s", e.Status, http.StatusText(e.Status))
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		log: logger.With().Str("component", "api").Logger(),
	}
}

// SetToken installs the bearer token captured at login. The zero value
// clears it (logout).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// StreamURL converts the base URL to its websocket scheme and appends path,
// e.g. StreamURL("/ws/logs") -> "ws://host/ws/logs".
func (c *Client) StreamURL(path string) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + path
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("request_id", reqID).
			Str("method", req.Method).Str("path", req.URL.Path).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("request_id", reqID).
		Str("method", req.Method).Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var envelope struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Detail != "" {
			apiErr.Detail = envelope.Detail
		} else {
			apiErr.Detail = envelope.Message
		}
	}
	return apiErr
}
