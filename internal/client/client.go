// Package client is a typed API client for the task service. List and
// detail reads are cached in process, keyed by the filter tuple the
// way the frontend keys its queries; any successful mutation drops
// every cached list and the detail entry for the touched id.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/domain"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu      sync.Mutex
	lists   map[string]*domain.TaskPage
	details map[int64]*domain.Task
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		lists:   make(map[string]*domain.TaskPage),
		details: make(map[int64]*domain.Task),
	}
}

// ListOptions mirrors the query parameters of GET /api/tasks.
type ListOptions struct {
	Text   string
	Filter string
	Page   int
	Limit  int
}

func (o ListOptions) key() string {
	return fmt.Sprintf("%s|%s|%d|%d", o.Text, o.Filter, o.Page, o.Limit)
}

// CreateTaskParams is the body of POST /api/tasks.
type CreateTaskParams struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// UpdateTaskParams is the partial body of PUT /api/tasks/:id.
type UpdateTaskParams struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type taskEnvelope struct {
	Data *domain.Task `json:"data"`
}

func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*domain.TaskPage, error) {
	c.mu.Lock()
	if page, ok := c.lists[opts.key()]; ok {
		c.mu.Unlock()
		return page, nil
	}
	c.mu.Unlock()

	q := url.Values{}
	if opts.Text != "" {
		q.Set("text", opts.Text)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/tasks"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page domain.TaskPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lists[opts.key()] = &page
	c.mu.Unlock()
	return &page, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	c.mu.Lock()
	if t, ok := c.details[id]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	var env taskEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &env); err != nil {
		return nil, err
	}
	if env.Data != nil {
		c.mu.Lock()
		c.details[id] = env.Data
		c.mu.Unlock()
	}
	return env.Data, nil
}

func (c *Client) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/tasks", params, &env); err != nil {
		return nil, err
	}
	c.invalidate(0)
	return env.Data, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), params, &env); err != nil {
		return nil, err
	}
	c.invalidate(id)
	return env.Data, nil
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", id), nil, &env); err != nil {
		return nil, err
	}
	c.invalidate(id)
	return env.Data, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, &env); err != nil {
		return nil, err
	}
	c.invalidate(id)
	return env.Data, nil
}

// invalidate drops all cached lists and, when id is set, that detail
// entry. No selective list invalidation is attempted.
func (c *Client) invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[string]*domain.TaskPage)
	if id != 0 {
		delete(c.details, id)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var remote struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &remote); err == nil && remote.Code != "" {
			return apperr.New(apperr.Code(remote.Code), remote.Message)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
