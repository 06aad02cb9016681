package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type captured struct {
	path string
	key  string
	body map[string]any
}

func newTestServer(t *testing.T, reply string, status int) (*httptest.Server, chan captured) {
	t.Helper()
	got := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{path: r.URL.Path, key: r.URL.Query().Get("key")}
		if c.key == "" {
			c.key = r.Header.Get("X-Goog-Api-Key")
		}
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		select {
		case got <- c:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestComplete(t *testing.T) {
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":"Step one"},{"text":"\nStep two"}]}}]}`
	srv, got := newTestServer(t, reply, http.StatusOK)

	c, err := New(context.Background(), Config{APIKey: "test-key", Endpoint: srv.URL + "/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected default model, got %q", c.Model())
	}

	text, err := c.Complete(context.Background(), "Break down: paint room")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Step one\nStep two" {
		t.Errorf("unexpected text %q", text)
	}

	req := <-got
	if !strings.HasSuffix(req.path, "/models/"+DefaultModel+":generateContent") {
		t.Errorf("unexpected path %q", req.path)
	}
	if req.key != "test-key" {
		t.Errorf("expected api key to be sent, got %q", req.key)
	}
	contents, _ := req.body["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("expected one content entry, got %v", req.body)
	}
}

func TestComplete_NoText(t *testing.T) {
	srv, _ := newTestServer(t, `{"candidates":[]}`, http.StatusOK)
	c, err := New(context.Background(), Config{APIKey: "k", Model: "gemini-pro", Endpoint: srv.URL + "/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestComplete_SendsUserTurn(t *testing.T) {
	reply := `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`
	srv, got := newTestServer(t, reply, http.StatusOK)
	c, err := New(context.Background(), Config{APIKey: "k", Model: "gemini-1.5-flash", Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.Complete(context.Background(), "plan my week"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	req := <-got
	if req.path != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("unexpected path %q", req.path)
	}
	contents, _ := req.body["contents"].([]any)
	first, _ := contents[0].(map[string]any)
	parts, _ := first["parts"].([]any)
	if first["role"] != "user" || len(parts) != 1 {
		t.Fatalf("unexpected request body %v", req.body)
	}
	if p, _ := parts[0].(map[string]any); p["text"] != "plan my week" {
		t.Errorf("prompt not sent verbatim: %v", parts[0])
	}
}

func TestComplete_APIError(t *testing.T) {
	srv, _ := newTestServer(t, `{"error":{"code":400,"message":"API key not valid"}}`, http.StatusBadRequest)
	c, err := New(context.Background(), Config{APIKey: "bad", Endpoint: srv.URL + "/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected api error, got %v", err)
	}
}
