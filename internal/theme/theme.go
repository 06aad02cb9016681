// Package theme defines the color palettes and the persisted theme choice.
package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"taskmate/internal/logging"
)

// Name identifies a palette.
type Name string

const (
	Normal    Name = "normal"
	Dark      Name = "dark"
	Christmas Name = "christmas"
	Halloween Name = "halloween"
	Cute      Name = "cute"
)

// Default is the palette used when nothing valid is stored.
const Default = Normal

// Colors is a palette.
type Colors struct {
	Background    lipgloss.Color
	Surface       lipgloss.Color
	Card          lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Primary       lipgloss.Color
	PrimaryText   lipgloss.Color
	Secondary     lipgloss.Color
	Success       lipgloss.Color
	Danger        lipgloss.Color
	Warning       lipgloss.Color
	Progress      lipgloss.Color
	Border        lipgloss.Color
	Shadow        lipgloss.Color
	AI            lipgloss.Color
	AIText        lipgloss.Color
}

// Theme is a named palette with its display label.
type Theme struct {
	Name   Name
	Label  string
	Icon   string
	Colors Colors
}

var themes = map[Name]Theme{
	Normal: {
		Name: Normal, Label: "Normal", Icon: "☀️",
		Colors: Colors{
			Background: "#FFFFFF", Surface: "#F9FAFB", Card: "#DBEAFE",
			Text: "#111827", TextSecondary: "#6B7280",
			Primary: "#000000", PrimaryText: "#FFFFFF", Secondary: "#E5E7EB",
			Success: "#10B981", Danger: "#EF4444", Warning: "#F59E0B",
			Progress: "#3B82F6", Border: "#D1D5DB", Shadow: "#000000",
			AI: "#9333EA", AIText: "#FFFFFF",
		},
	},
	Dark: {
		Name: Dark, Label: "Dark", Icon: "🌙",
		Colors: Colors{
			Background: "#0F172A", Surface: "#1E293B", Card: "#334155",
			Text: "#F1F5F9", TextSecondary: "#94A3B8",
			Primary: "#3B82F6", PrimaryText: "#FFFFFF", Secondary: "#475569",
			Success: "#10B981", Danger: "#EF4444", Warning: "#F59E0B",
			Progress: "#60A5FA", Border: "#475569", Shadow: "#000000",
			AI: "#A855F7", AIText: "#FFFFFF",
		},
	},
	Christmas: {
		Name: Christmas, Label: "Christmas", Icon: "🎄",
		Colors: Colors{
			Background: "#FEF2F2", Surface: "#FFEDD5", Card: "#FEE2E2",
			Text: "#7F1D1D", TextSecondary: "#991B1B",
			Primary: "#DC2626", PrimaryText: "#FFFFFF", Secondary: "#16A34A",
			Success: "#16A34A", Danger: "#DC2626", Warning: "#F59E0B",
			Progress: "#DC2626", Border: "#FCA5A5", Shadow: "#991B1B",
			AI: "#16A34A", AIText: "#FFFFFF",
		},
	},
	Halloween: {
		Name: Halloween, Label: "Halloween", Icon: "🎃",
		Colors: Colors{
			Background: "#18181B", Surface: "#27272A", Card: "#3F3F46",
			Text: "#FF8C00", TextSecondary: "#A1A1AA",
			Primary: "#FF6B00", PrimaryText: "#000000", Secondary: "#7C3AED",
			Success: "#16A34A", Danger: "#EF4444", Warning: "#FF8C00",
			Progress: "#FF6B00", Border: "#52525B", Shadow: "#7C3AED",
			AI: "#7C3AED", AIText: "#FFFFFF",
		},
	},
	Cute: {
		Name: Cute, Label: "Cute", Icon: "🌸",
		Colors: Colors{
			Background: "#FDF4FF", Surface: "#FCE7F3", Card: "#FBCFE8",
			Text: "#831843", TextSecondary: "#9D174D",
			Primary: "#EC4899", PrimaryText: "#FFFFFF", Secondary: "#F472B6",
			Success: "#10B981", Danger: "#F87171", Warning: "#FBBF24",
			Progress: "#EC4899", Border: "#F9A8D4", Shadow: "#BE185D",
			AI: "#A855F7", AIText: "#FFFFFF",
		},
	},
}

// order is the display order of All.
var order = []Name{Normal, Dark, Christmas, Halloween, Cute}

// All returns every palette in display order.
func All() []Theme {
	out := make([]Theme, 0, len(order))
	for _, n := range order {
		out = append(out, themes[n])
	}
	return out
}

// Lookup returns the palette called name (case-insensitive).
func Lookup(name string) (Theme, bool) {
	t, ok := themes[Name(strings.ToLower(strings.TrimSpace(name)))]
	return t, ok
}

// ErrUnknown is returned by Set for a name that is not a palette.
var ErrUnknown = errors.New("unknown theme")

// Manager holds the selected palette and persists it as plain text.
type Manager struct {
	path string
	log  *slog.Logger

	mu      sync.RWMutex
	current Name
}

// NewManager returns a Manager for the file at path, set to Default.
func NewManager(path string, log *slog.Logger) *Manager {
	return &Manager{
		path:    path,
		log:     logging.OrDiscard(log).With("component", "theme"),
		current: Default,
	}
}

// Load reads the stored choice. A missing, unreadable or unknown value
// keeps the default.
func (m *Manager) Load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.log.Warn("read theme failed", "path", m.path, "err", err)
		}
		return
	}
	t, ok := Lookup(string(data))
	if !ok {
		m.log.Debug("ignoring stored theme", "value", strings.TrimSpace(string(data)))
		return
	}
	m.mu.Lock()
	m.current = t.Name
	m.mu.Unlock()
}

// Current returns the selected palette.
func (m *Manager) Current() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return themes[m.current]
}

// Set selects the palette and writes it to disk. The selection changes
// even when the write fails; the write error is returned.
func (m *Manager) Set(name string) (Theme, error) {
	t, ok := Lookup(name)
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}

	m.mu.Lock()
	m.current = t.Name
	m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		m.log.Warn("save theme failed", "err", err)
		return t, fmt.Errorf("save theme: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(string(t.Name)+"\n"), 0600); err != nil {
		m.log.Warn("save theme failed", "err", err)
		return t, fmt.Errorf("save theme: %w", err)
	}
	return t, nil
}
