// Package assistant turns task data into prompts for a text-completion
// model and parses the replies. Every operation degrades to a fixed
// fallback instead of returning an error.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"taskmate/internal/logging"
	"taskmate/internal/service"
)

// Completer sends one prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNoAPIKey is reported when no completion provider is configured.
	ErrNoAPIKey = errors.New("AI API key not configured")

	// ErrEmptyPrompt is reported for a blank prompt or question.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrEmptyResponse is reported when the model returns no text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Fallback texts.
const (
	FallbackSuggestions = "Could not generate suggestions. Check your connection or API key."
	FallbackSubtask     = "Could not generate subtasks"
	FallbackAnalysis    = "Could not analyze priorities."
	FallbackAnswer      = "Could not get an answer. Check your API key."

	// SuggestionTitle names tasks saved from a free-form answer.
	SuggestionTitle = "AI suggestion"
)

const (
	maxSubtasks       = 5
	draftTitleMaxRune = 50
)

// Advice is an operation result. Fallback is set when Value is the fixed
// fallback rather than model output; Reason then says why.
type Advice[T any] struct {
	Value    T
	Fallback bool
	Reason   error
}

// Draft is a task proposed from natural language.
type Draft struct {
	Title       string
	Description string
}

// Advisor runs the advisory operations against a Completer.
type Advisor struct {
	completer Completer
	language  string
	log       *slog.Logger
}

// NewAdvisor creates an Advisor. A nil completer makes every operation
// return its fallback with ErrNoAPIKey.
func NewAdvisor(completer Completer, language string, log *slog.Logger) *Advisor {
	if strings.TrimSpace(language) == "" {
		language = "Spanish"
	}
	return &Advisor{
		completer: completer,
		language:  language,
		log:       logging.OrDiscard(log).With("component", "assistant"),
	}
}

// Available reports whether a completion provider is configured.
func (a *Advisor) Available() bool {
	return a.completer != nil
}

func (a *Advisor) complete(ctx context.Context, op, prompt string) (string, error) {
	if a.completer == nil {
		return "", ErrNoAPIKey
	}
	text, err := a.completer.Complete(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		a.log.Warn("completion failed", "op", op, "err", err)
		return "", err
	}
	return text, nil
}

// Suggestions asks for 3-5 practical tips for one task. The reply is returned verbatim.
func (a *Advisor) Suggestions(ctx context.Context, title, description string) Advice[string] {
	prompt := fmt.Sprintf(`You are a productivity expert.
Task: %q
Description: %q

Give 3-5 practical, concrete tips to complete this task efficiently.
Answer in %s, as a simple list, direct and without introduction.`, title, description, a.language)

	text, err := a.complete(ctx, "suggestions", prompt)
	if err != nil {
		return Advice[string]{Value: FallbackSuggestions, Fallback: true, Reason: err}
	}
	return Advice[string]{Value: text}
}

// Subtasks asks for 3-5 actionable steps and returns at most five of them.
func (a *Advisor) Subtasks(ctx context.Context, title, description string) Advice[[]string] {
	prompt := fmt.Sprintf(`Break this task down into 3-5 specific, actionable steps:
Task: %q
Description: %q

Answer ONLY in %s with the list of steps, one per line, without numbering, bullets or dashes.`, title, description, a.language)

	text, err := a.complete(ctx, "subtasks", prompt)
	if err != nil {
		return Advice[[]string]{Value: []string{FallbackSubtask}, Fallback: true, Reason: err}
	}
	return Advice[[]string]{Value: ParseSubtasks(text)}
}

var numberedLine = regexp.MustCompile(`^\d+\.`)

// ParseSubtasks keeps the trimmed, non-empty lines of text that are not
// list items (leading "-", "*" or "N."), up to five.
func ParseSubtasks(text string) []string {
	steps := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "*") ||
			numberedLine.MatchString(line) {
			continue
		}
		steps = append(steps, line)
		if len(steps) == maxSubtasks {
			break
		}
	}
	return steps
}

// PriorityAnalysis asks for a short recommended execution order.
func (a *Advisor) PriorityAnalysis(ctx context.Context, tasks []service.Task) Advice[string] {
	prompt := fmt.Sprintf(`Analyze these tasks and suggest an optimal execution order:

%s

Give a brief analysis in %s (at most 4 lines) with priority recommendations based on urgency and importance.`, TaskLines(tasks), a.language)

	text, err := a.complete(ctx, "analyze", prompt)
	if err != nil {
		return Advice[string]{Value: FallbackAnalysis, Fallback: true, Reason: err}
	}
	return Advice[string]{Value: text}
}

// TaskLines renders tasks as "N. title - Completed|Pending" lines.
func TaskLines(tasks []service.Task) string {
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		state := "Pending"
		if t.Completed {
			state = "Completed"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, t.Title, state))
	}
	return strings.Join(lines, "\n")
}

var (
	titleMarker       = regexp.MustCompile(`(?i)TITULO:\s*(.+)`)
	descriptionMarker = regexp.MustCompile(`(?i)DESCRIPCION:\s*(.+)`)
)

// TaskFromPrompt turns free text into a task draft. Fields missing from
// the reply fall back individually to the prompt itself.
func (a *Advisor) TaskFromPrompt(ctx context.Context, prompt string) Advice[Draft] {
	fallback := fallbackDraft(prompt)
	if strings.TrimSpace(prompt) == "" {
		return Advice[Draft]{Value: fallback, Fallback: true, Reason: ErrEmptyPrompt}
	}

	request := fmt.Sprintf(`Turn this text into a structured task:
%q

Answer EXACTLY in this format (no extra explanation) and in %s:
TITULO: [short title of at most 6 words]
DESCRIPCION: [detailed description in 1-2 sentences]`, prompt, a.language)

	text, err := a.complete(ctx, "draft", request)
	if err != nil {
		return Advice[Draft]{Value: fallback, Fallback: true, Reason: err}
	}
	return Advice[Draft]{Value: ParseDraft(text, prompt)}
}

// ParseDraft extracts the TITULO/DESCRIPCION fields from a reply.
func ParseDraft(reply, prompt string) Draft {
	d := fallbackDraft(prompt)
	if m := titleMarker.FindStringSubmatch(reply); m != nil {
		d.Title = strings.TrimSpace(m[1])
	}
	if m := descriptionMarker.FindStringSubmatch(reply); m != nil {
		d.Description = strings.TrimSpace(m[1])
	}
	return d
}

func fallbackDraft(prompt string) Draft {
	title := prompt
	if r := []rune(prompt); len(r) > draftTitleMaxRune {
		title = string(r[:draftTitleMaxRune])
	}
	return Draft{Title: title, Description: prompt}
}

// Ask answers a free-form planning question in at most four lines.
func (a *Advisor) Ask(ctx context.Context, question string) Advice[string] {
	if strings.TrimSpace(question) == "" {
		return Advice[string]{Value: FallbackAnswer, Fallback: true, Reason: ErrEmptyPrompt}
	}

	prompt := fmt.Sprintf(`You are an expert in organization and productivity.
You help the user create, order and plan tasks.
Answer in %s, in at most 4 lines.
User question: %s`, a.language, question)

	text, err := a.complete(ctx, "ask", prompt)
	if err != nil {
		return Advice[string]{Value: FallbackAnswer, Fallback: true, Reason: err}
	}
	return Advice[string]{Value: text}
}
