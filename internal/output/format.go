// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"taskmate/internal/service"
	"taskmate/internal/tasks"
	"taskmate/internal/theme"
)

// Formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ProgressWidth is the bar width in cells, percentage excluded.
const ProgressWidth = 30

// Printer renders themed text to one writer.
type Printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	theme  theme.Theme
	styles theme.Styles
}

// NewPrinter returns a Printer for w. Colors are dropped when w is not a terminal.
func NewPrinter(w io.Writer, th theme.Theme) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{w: w, r: r, theme: th, styles: th.Styles(r)}
}

// Styles exposes the printer's styles.
func (p *Printer) Styles() theme.Styles { return p.styles }

// Task prints one numbered task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, checkbox, title)
func (p *Printer) Task(num int, task service.Task) {
	title := normalizeTitle(task.Title)
	box := "[ ]"
	style := p.styles.Pending
	if task.Completed {
		box = "[x]"
		style = p.styles.Done
	}
	fmt.Fprintf(p.w, "%s  %s %s\n", p.styles.Number.Render(fmt.Sprintf("%4d", num)), box, style.Render(title))
}

// Tasks prints every task, numbered from 1.
func (p *Printer) Tasks(list []service.Task) {
	for i, t := range list {
		p.Task(i+1, t)
	}
}

// Detail prints one task with its description and creation date.
func (p *Printer) Detail(num int, task service.Task) {
	p.Task(num, task)
	desc := strings.TrimSpace(task.Description)
	if desc == "" {
		desc = "(no description)"
	}
	for _, line := range strings.Split(desc, "\n") {
		fmt.Fprintf(p.w, "      %s\n", line)
	}
	fmt.Fprintf(p.w, "      %s\n", p.styles.Muted.Render("id: "+task.ID))
	if task.CreatedAt != "" {
		fmt.Fprintf(p.w, "      %s\n", p.styles.Muted.Render("created: "+task.CreatedAt))
	}
}

// Progress prints "{done} of {total} completed" and a bar in the theme's progress color.
func (p *Printer) Progress(pr tasks.Progress) {
	fmt.Fprintf(p.w, "%s\n", p.styles.Heading.Render(fmt.Sprintf("%d of %d completed", pr.Completed, pr.Total)))
	fmt.Fprintln(p.w, ProgressBar(p.r, p.theme, pr.Ratio()))
}

// ProgressBar renders ratio as a bar with the percentage.
func ProgressBar(r *lipgloss.Renderer, th theme.Theme, ratio float64) string {
	bar := progress.New(
		progress.WithSolidFill(string(th.Colors.Progress)),
		progress.WithWidth(ProgressWidth),
		progress.WithColorProfile(r.ColorProfile()),
	)
	return bar.ViewAs(ratio)
}

// Swatch renders the theme label in its primary color followed by a
// sample of its progress color.
func Swatch(w io.Writer, th theme.Theme) string {
	r := lipgloss.NewRenderer(w)
	return r.NewStyle().Foreground(th.Colors.Primary).Render(th.Label) + " " +
		r.NewStyle().Foreground(th.Colors.Progress).Render("■■■")
}

// Advice prints AI output. Fallback text is shown in the warning color.
func (p *Printer) Advice(text string, fallback bool) {
	style := p.styles.AI
	if fallback {
		style = p.styles.Warning
	}
	fmt.Fprintln(p.w, style.Render(strings.TrimRight(text, "\n")))
}

// Line prints a plain line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// ValidFormat reports whether f is a known --format value.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
