// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"fmt"
)

// Service defines the remote task collection operations.
// Every call against the task service goes through this interface;
// commands and the task store never talk HTTP directly.
type Service interface {
	// ListTasks returns every task in server order (no client-side sorting).
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask persists a new task. CreatedAt is filled with the current
	// time when empty. Returns the server record including its assigned ID.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// UpdateTask sends only the fields set in patch and returns the
	// server's resulting full record.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}

var (
	// ErrNotFound is returned when the task does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the service rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout is returned when a request was cancelled or timed out.
	ErrTimeout = errors.New("request timed out")
)

// APIError is a non-2xx response from the task service.
type APIError struct {
	StatusCode int
	Body       string
	Err        error // sentinel for well-known statuses, may be nil
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("task service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("task service returned status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }
