// Package api is the HTTP client the CLI uses to talk to the to-do server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	authdto "todo_backend/internal/feature/auth/transport/http/dto"
	taskdto "todo_backend/internal/feature/tasks/transport/http/dto"
)

// APIError is a non-2xx response. Message is the server's "error" field, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// ServerMessage returns the server-reported message of err, or fallback
// when err did not carry one.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client calls the REST API. The bearer token set with SetToken is attached
// to every request, like a default header.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL (for example http://localhost:5000/api).
func New(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken sets the default Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the default Authorization header.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, email, password string) (*authdto.AuthRes, error) {
	var out authdto.AuthRes
	err := c.do(ctx, http.MethodPost, "/auth/signup", authdto.SignupReq{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*authdto.AuthRes, error) {
	var out authdto.AuthRes
	err := c.do(ctx, http.MethodPost, "/auth/login", authdto.LoginReq{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks returns the caller's tasks.
func (c *Client) ListTasks(ctx context.Context) ([]taskdto.TaskRes, error) {
	out := []taskdto.TaskRes{}
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a pending task.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*taskdto.TaskRes, error) {
	var out taskdto.TaskRes
	err := c.do(ctx, http.MethodPost, "/tasks", taskdto.CreateTaskReq{Title: title, Description: description}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask sends a partial update. Nil fields of req are omitted.
func (c *Client) UpdateTask(ctx context.Context, id string, req taskdto.UpdateTaskReq) (*taskdto.TaskRes, error) {
	var out taskdto.TaskRes
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), updateBody(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var out taskdto.MessageRes
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &out)
}

// updateBody drops nil fields so the server leaves them unchanged.
func updateBody(req taskdto.UpdateTaskReq) map[string]string {
	body := map[string]string{}
	if req.Title != nil {
		body["title"] = *req.Title
	}
	if req.Description != nil {
		body["description"] = *req.Description
	}
	if req.Status != nil {
		body["status"] = *req.Status
	}
	return body
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e authdto.ErrorRes
		_ = json.Unmarshal(raw, &e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
