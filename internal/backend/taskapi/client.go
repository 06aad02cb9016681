// Package taskapi implements the service.Service interface against a
// json-server style REST collection (GET/POST /tasks, PATCH/DELETE /tasks/{id}).
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"taskmate/internal/config"
	"taskmate/internal/logging"
	"taskmate/internal/service"
)

const (
	// CollectionPath is the task collection endpoint.
	CollectionPath = "/tasks"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	log     *slog.Logger
	now     func() time.Time
}

// New creates a task service client from config.
// When api.token is set every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Client, error) {
	httpClient := http.DefaultClient
	if tok := strings.TrimSpace(cfg.API.Token); tok != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: tok,
			TokenType:   "Bearer",
		}))
	}
	return NewWithHTTPClient(cfg.API.URL, httpClient, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid task service url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid task service url: %q (want http or https)", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(u.String(), "/"),
		log:     logging.OrDiscard(log).With("component", "taskapi"),
		now:     time.Now,
	}, nil
}

// ListTasks returns all tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, CollectionPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask stamps CreatedAt when missing and posts the task.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	if task.CreatedAt == "" {
		task.CreatedAt = c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	var created service.Task
	if err := c.do(ctx, http.MethodPost, CollectionPath, task, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// UpdateTask sends a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var updated service.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), patch, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return CollectionPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return wrapError(err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return wrapError(&service.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// wrapError attaches sentinel errors for timeouts, auth failures and missing tasks.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", service.ErrTimeout, err)
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			apiErr.Err = service.ErrUnauthorized
		case http.StatusNotFound:
			apiErr.Err = service.ErrNotFound
		}
		return apiErr
	}

	return err
}
