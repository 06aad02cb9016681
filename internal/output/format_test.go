package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"taskmate/internal/service"
	"taskmate/internal/tasks"
	"taskmate/internal/testutil"
	"taskmate/internal/theme"
)

func printer(buf *bytes.Buffer) *Printer {
	th, _ := theme.Lookup("normal")
	return NewPrinter(buf, th)
}

func TestPrinter_Tasks(t *testing.T) {
	var buf bytes.Buffer
	printer(&buf).Tasks([]service.Task{
		{ID: "1", Title: "Buy milk", Completed: true},
		{ID: "2", Title: "  "},
		{ID: "3", Title: "Multi\nline"},
	})
	testutil.GoldenString(t, "tasks", buf.String())
}

func TestPrinter_Detail(t *testing.T) {
	var buf bytes.Buffer
	printer(&buf).Detail(2, service.Task{
		ID: "abc", Title: "Walk dog", Description: "Park\nthen home", CreatedAt: "2025-11-24T10:00:00.000Z",
	})
	testutil.GoldenString(t, "detail", buf.String())
}

func TestPrinter_Progress(t *testing.T) {
	var buf bytes.Buffer
	printer(&buf).Progress(tasks.Progress{Completed: 1, Total: 4})
	out := buf.String()
	if !strings.HasPrefix(out, "1 of 4 completed\n") {
		t.Errorf("unexpected heading in %q", out)
	}
	if !strings.Contains(out, "25%") {
		t.Errorf("expected percentage in %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no escape codes for a buffer, got %q", out)
	}
}

func TestProgressBar_Bounds(t *testing.T) {
	th, _ := theme.Lookup("dark")
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	if got := ProgressBar(r, th, 0); !strings.Contains(got, "0%") {
		t.Errorf("expected 0%%, got %q", got)
	}
	if got := ProgressBar(r, th, 1); !strings.Contains(got, "100%") {
		t.Errorf("expected 100%%, got %q", got)
	}
}

func TestJSONAndYAML(t *testing.T) {
	list := []service.Task{{ID: "a1", Title: "Buy milk", Description: "Two liters", CreatedAt: "2025-11-24T10:00:00.000Z"}}

	var j bytes.Buffer
	if err := JSON(&j, list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(j.String(), `"createdAt": "2025-11-24T10:00:00.000Z"`) {
		t.Errorf("unexpected json %s", j.String())
	}

	var y bytes.Buffer
	if err := YAML(&y, list); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(y.String(), "- id: a1\n") || !strings.Contains(y.String(), "completed: false") {
		t.Errorf("unexpected yaml %s", y.String())
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"":         "(untitled)",
		"   ":      "(untitled)",
		"a\r\nb":   "a  b",
		"Buy milk": "Buy milk",
	}
	for in, want := range cases {
		if got := normalizeTitle(in); got != want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		if !ValidFormat(f) {
			t.Errorf("%s should be valid", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("xml should be invalid")
	}
}
