package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the text styles derived from a palette.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Done      lipgloss.Style
	Pending   lipgloss.Style
	Number    lipgloss.Style
	Heading   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	AI        lipgloss.Style
	Separator lipgloss.Style
}

// Styles builds the styles for t on renderer r. Passing a renderer bound
// to the output writer lets non-terminal writers get plain text.
func (t Theme) Styles(r *lipgloss.Renderer) Styles {
	c := t.Colors
	return Styles{
		Title:     r.NewStyle().Foreground(c.Text),
		Muted:     r.NewStyle().Foreground(c.TextSecondary),
		Done:      r.NewStyle().Foreground(c.Success).Strikethrough(true),
		Pending:   r.NewStyle().Foreground(c.Text),
		Number:    r.NewStyle().Foreground(c.TextSecondary),
		Heading:   r.NewStyle().Foreground(c.Primary).Bold(true),
		Error:     r.NewStyle().Foreground(c.Danger),
		Warning:   r.NewStyle().Foreground(c.Warning),
		AI:        r.NewStyle().Foreground(c.AI),
		Separator: r.NewStyle().Foreground(c.Border),
	}
}
