// Package todoist is a small client for the Todoist REST API covering the
// calls the chat commands need.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harrisonrobin/todochat/pkg/auth"
	"github.com/harrisonrobin/todochat/pkg/config"
	"github.com/harrisonrobin/todochat/pkg/model"
	"google.golang.org/api/googleapi"
)

// Operation names, used in errors and logs.
const (
	OpCreateTask   = "add task"
	OpListProjects = "get projects"
	OpListTasks    = "get tasks"
	OpCloseTask    = "complete task"
)

// NewTask holds the fields sent when creating a task. Empty fields are
// omitted from the request.
type NewTask struct {
	Content   string `json:"content"`
	DueString string `json:"due_string,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

// Client is a Todoist REST API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client from settings. The API token is read from
// settings on every request.
func NewClient(ctx context.Context, store *config.Store, opts ...Option) (*Client, error) {
	timeout, err := store.Timeout()
	if err != nil {
		return nil, err
	}
	httpClient := auth.GetClient(ctx, store, timeout)
	return NewHTTPClient(httpClient, store.BaseURL(), opts...), nil
}

// NewHTTPClient creates a client that sends requests with httpClient, which
// is expected to add the bearer credential.
func NewHTTPClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     log.New(io.Discard),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTask adds a task and returns it as stored by Todoist.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (*model.Task, error) {
	var created model.Task
	if err := c.do(ctx, OpCreateTask, http.MethodPost, "/tasks", nil, task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListProjects returns all projects of the account.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, OpListProjects, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListTasks returns active tasks. filter is passed to Todoist verbatim and
// both arguments may be empty.
func (c *Client) ListTasks(ctx context.Context, filter, projectID string) ([]model.Task, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	if projectID != "" {
		query.Set("project_id", projectID)
	}

	var tasks []model.Task
	if err := c.do(ctx, OpListTasks, http.MethodGet, "/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CloseTask marks a task as complete.
func (c *Client) CloseTask(ctx context.Context, taskID string) (bool, error) {
	path := fmt.Sprintf("/tasks/%s/close", url.PathEscape(taskID))
	if err := c.do(ctx, OpCloseTask, http.MethodPost, path, nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return c.fail(&Error{Op: op, Kind: Unknown, Err: fmt.Errorf("failed to encode request: %w", err)})
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return c.fail(&Error{Op: op, Kind: Unknown, Err: err})
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("X-Request-Id", c.requestID())
	}

	c.logger.Debug("todoist request", "op", op, "method", method, "path", path)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(transportError(op, err))
	}
	defer googleapi.CloseBody(res)

	if err := googleapi.CheckResponse(res); err != nil {
		return c.fail(responseError(op, err))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return c.fail(&Error{Op: op, Kind: Unknown, StatusCode: res.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)})
	}
	return nil
}

func (c *Client) fail(err *Error) error {
	c.logger.Error("todoist request failed", "op", err.Op, "kind", err.Kind, "err", err.Err)
	return err
}
