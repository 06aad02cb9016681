package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/assistant"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
	"taskmate/internal/service"
)

func init() {
	Register(&AskCmd{})
}

// AskCmd is the free-form productivity assistant.
type AskCmd struct {
	save bool
}

// SetSave sets the --save flag (for testing).
func (c *AskCmd) SetSave(v bool) { c.save = v }

func (c *AskCmd) Name() string      { return "ask" }
func (c *AskCmd) Aliases() []string { return nil }
func (c *AskCmd) Synopsis() string  { return "Ask the AI assistant a planning question" }
func (c *AskCmd) Usage() string     { return "taskmate ask [--save] <question...>" }
func (c *AskCmd) NeedsAuth() bool   { return true }

func (c *AskCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.save, "save", false, "")
}

func (c *AskCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return userError(errOut, "question required")
	}

	advice := a.Advisor.Ask(ctx, question)
	output.NewPrinter(out, a.Themes.Current()).Advice(advice.Value, advice.Fallback)
	if !c.save {
		return exitcode.Success
	}
	if advice.Fallback {
		fmt.Fprintln(errOut, "warning: nothing to save")
		return exitcode.Success
	}

	// The answer is free text; it is stored without the form rules.
	return addTask(ctx, a, service.NewTask{
		Title:       assistant.SuggestionTitle,
		Description: strings.TrimSpace(advice.Value),
	}, out, errOut)
}
