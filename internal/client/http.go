package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/ws"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Message)
}

// HTTPClient makes REST calls to a wellnest server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateSession sends POST /api/sessions.
func (c *HTTPClient) CreateSession(ctx context.Context) (ws.SessionView, error) {
	var v ws.SessionView
	err := c.do(ctx, http.MethodPost, "/api/sessions", &v)
	return v, err
}

// ListSessions fetches GET /api/sessions.
func (c *HTTPClient) ListSessions(ctx context.Context) ([]ws.SessionView, error) {
	var out []ws.SessionView
	err := c.do(ctx, http.MethodGet, "/api/sessions", &out)
	return out, err
}

// GetSession fetches GET /api/sessions/{id}.
func (c *HTTPClient) GetSession(ctx context.Context, id string) (ws.SessionView, error) {
	var v ws.SessionView
	err := c.do(ctx, http.MethodGet, sessionPath(id, ""), &v)
	return v, err
}

func (c *HTTPClient) Start(ctx context.Context, id string) (ws.SessionView, error) {
	return c.command(ctx, id, "start")
}

func (c *HTTPClient) Pause(ctx context.Context, id string) (ws.SessionView, error) {
	return c.command(ctx, id, "pause")
}

func (c *HTTPClient) Reset(ctx context.Context, id string) (ws.SessionView, error) {
	return c.command(ctx, id, "reset")
}

// DeleteSession sends DELETE /api/sessions/{id}.
func (c *HTTPClient) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil)
}

// GetPractice fetches /api/practice.
func (c *HTTPClient) GetPractice(ctx context.Context) (practice.Summary, error) {
	var s practice.Summary
	err := c.do(ctx, http.MethodGet, "/api/practice", &s)
	return s, err
}

// GetReminders fetches /api/reminders/next.
func (c *HTTPClient) GetReminders(ctx context.Context) ([]reminder.NextFire, error) {
	var out []reminder.NextFire
	err := c.do(ctx, http.MethodGet, "/api/reminders/next", &out)
	return out, err
}

func (c *HTTPClient) command(ctx context.Context, id, verb string) (ws.SessionView, error) {
	var v ws.SessionView
	err := c.do(ctx, http.MethodPost, sessionPath(id, verb), &v)
	return v, err
}

func sessionPath(id, verb string) string {
	p := "/api/sessions/" + url.PathEscape(id)
	if verb != "" {
		p += "/" + verb
	}
	return p
}

func (c *HTTPClient) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		se := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: string(body)}
		var e ws.ErrorPayload
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			se.Message = e.Message
		}
		return se
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
