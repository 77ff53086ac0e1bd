package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the todo REST API as one authenticated user.
type Client struct {
	baseURL string
	userID  int64
	token   string
	client  *http.Client
}

// NewClient creates a client for the given address with an already-issued
// bearer token. The user id is only used to build URL paths; the server
// derives the acting identity from the token.
func NewClient(addr string, userID int64, token string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, userID: userID, token: token, client: &http.Client{}}
}

// Login authenticates with email/password and returns a ready client.
func Login(ctx context.Context, addr, email, password string) (*Client, error) {
	c := NewClient(addr, 0, "")

	var out struct {
		AccessToken string `json:"access_token"`
		UserID      int64  `json:"user_id"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}

	c.userID = out.UserID
	c.token = out.AccessToken
	return c, nil
}

func (c *Client) userPath(suffix string) string {
	return fmt.Sprintf("/api/%d%s", c.userID, suffix)
}

// ListTasks fetches the authoritative task list.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, c.userPath("/tasks"), nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (Task, error) {
	in := map[string]string{"title": title, "description": description}
	var out Task
	if err := c.do(ctx, http.MethodPost, c.userPath("/tasks"), in, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) PatchTask(ctx context.Context, id int64, p TaskPatch) (Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPatch, c.userPath(fmt.Sprintf("/tasks/%d", id)), p, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.userPath(fmt.Sprintf("/tasks/%d", id)), nil, nil)
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPatch, c.userPath(fmt.Sprintf("/tasks/%d/complete", id)), nil, &out); err != nil {
		return Task{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
