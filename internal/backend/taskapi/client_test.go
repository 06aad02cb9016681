package taskapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"taskmate/internal/config"
	"taskmate/internal/devserver"
	"taskmate/internal/service"
)

func newDevServerClient(t *testing.T) *Client {
	t.Helper()
	store, err := devserver.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(devserver.New(store, nil).Handler())
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(srv.URL+"/", srv.Client(), nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	c.now = func() time.Time { return time.Date(2025, 11, 24, 9, 30, 0, 0, time.UTC) }
	return c
}

func TestClient_RoundTripAgainstDevServer(t *testing.T) {
	c := newDevServerClient(t)
	ctx := context.Background()

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", tasks)
	}

	created, err := c.CreateTask(ctx, service.NewTask{Title: "Buy milk", Description: "Two liters"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.CreatedAt != "2025-11-24T09:30:00.000Z" {
		t.Errorf("expected stamped createdAt, got %q", created.CreatedAt)
	}

	updated, err := c.UpdateTask(ctx, created.ID, service.TaskPatch{Completed: service.Bool(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.Title != "Buy milk" {
		t.Errorf("unexpected updated task %+v", updated)
	}

	if err := c.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks after delete, got %d", len(tasks))
	}
}

func TestClient_NotFound(t *testing.T) {
	c := newDevServerClient(t)

	_, err := c.UpdateTask(context.Background(), "missing", service.TaskPatch{Title: service.String("x")})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected APIError with 404, got %v", err)
	}

	if err := c.DeleteTask(context.Background(), "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestClient_PatchSendsOnlyChangedFields(t *testing.T) {
	var (
		mu   sync.Mutex
		body map[string]any
		path string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.EscapedPath()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a b","title":"t","description":"d","completed":true,"createdAt":"x"}`))
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.UpdateTask(context.Background(), "a b", service.TaskPatch{Completed: service.Bool(true)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if path != "/tasks/a%20b" {
		t.Errorf("expected escaped id in path, got %q", path)
	}
	if len(body) != 1 || body["completed"] != true {
		t.Errorf("expected only completed in body, got %v", body)
	}
}

func TestClient_UnauthorizedAndServerError(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusUnauthorized)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	status.Store(http.StatusInternalServerError)
	_, err = c.ListTasks(context.Background())
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 || apiErr.Body != `{"error":"nope"}` {
		t.Errorf("expected APIError 500 with body, got %v", err)
	}
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("500 must not map to a sentinel: %v", err)
	}
}

func TestClient_CancelledContextIsTimeout(t *testing.T) {
	c := newDevServerClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListTasks(ctx); !errors.Is(err, service.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestNew_BearerToken(t *testing.T) {
	auth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.New(t.TempDir())
	cfg.API.URL = srv.URL
	cfg.API.Token = "secret-token"

	c, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := <-auth; got != "Bearer secret-token" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestNewWithHTTPClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "127.0.0.1:3000"} {
		if _, err := NewWithHTTPClient(raw, nil, nil); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
