package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"taskmate/internal/service"
)

func newTestServer(t *testing.T) (*Store, *httptest.Server) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	store.now = func() time.Time { return time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(New(store, nil).Handler())
	t.Cleanup(srv.Close)
	return store, srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestServer_CRUD(t *testing.T) {
	_, srv := newTestServer(t)

	var created service.Task
	code := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title": "Buy milk", "description": "Two liters", "completed": false,
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.CreatedAt != "2025-11-24T10:00:00Z" {
		t.Errorf("expected default createdAt, got %q", created.CreatedAt)
	}

	var second service.Task
	doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title": "Walk dog", "description": "Park", "completed": false, "createdAt": "2025-01-01T00:00:00.000Z",
	}, &second)
	if second.CreatedAt != "2025-01-01T00:00:00.000Z" {
		t.Errorf("client createdAt should be kept, got %q", second.CreatedAt)
	}

	var patched service.Task
	code = doJSON(t, http.MethodPatch, srv.URL+"/tasks/"+created.ID, map[string]any{"completed": true}, &patched)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !patched.Completed || patched.Title != "Buy milk" || patched.Description != "Two liters" {
		t.Errorf("patch should only change completed: %+v", patched)
	}

	var list []service.Task
	doJSON(t, http.MethodGet, srv.URL+"/tasks", nil, &list)
	if len(list) != 2 || list[0].ID != created.ID || list[1].ID != second.ID {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	code = doJSON(t, http.MethodDelete, srv.URL+"/tasks/"+created.ID, nil, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", code)
	}
	code = doJSON(t, http.MethodGet, srv.URL+"/tasks/"+created.ID, nil, nil)
	if code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", code)
	}
}

func TestServer_Replace(t *testing.T) {
	store, srv := newTestServer(t)
	task, err := store.Create(context.Background(), service.NewTask{Title: "Old", Description: "Old desc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var replaced service.Task
	code := doJSON(t, http.MethodPut, srv.URL+"/tasks/"+task.ID, map[string]any{
		"title": "New", "description": "New desc", "completed": true,
	}, &replaced)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if replaced.Title != "New" || !replaced.Completed || replaced.CreatedAt != task.CreatedAt {
		t.Errorf("unexpected replaced record %+v", replaced)
	}
}

func TestServer_NotFoundAndBadBody(t *testing.T) {
	_, srv := newTestServer(t)

	var errResp ErrorResponse
	code := doJSON(t, http.MethodPatch, srv.URL+"/tasks/missing", map[string]any{"title": "x"}, &errResp)
	if code != http.StatusNotFound || errResp.Error != "not found" {
		t.Errorf("expected 404 not found, got %d %+v", code, errResp)
	}

	code = doJSON(t, http.MethodDelete, srv.URL+"/tasks/missing", nil, nil)
	if code != http.StatusNotFound {
		t.Errorf("expected 404 on delete, got %d", code)
	}

	resp, err := http.Post(srv.URL+"/tasks", "application/json", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestServer_Health(t *testing.T) {
	_, srv := newTestServer(t)
	var health HealthResponse
	if code := doJSON(t, http.MethodGet, srv.URL+"/health", nil, &health); code != http.StatusOK || health.Status != "ok" {
		t.Errorf("unexpected health reply %d %+v", code, health)
	}
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- New(store, nil).ListenAndServe(ctx, "127.0.0.1:0", ready) }()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
