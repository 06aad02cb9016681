package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
	"taskmate/internal/service"
)

func init() {
	Register(&DraftCmd{})
}

// DraftCmd turns free text into a task, optionally saving it.
type DraftCmd struct {
	save bool
}

// SetSave sets the --save flag (for testing).
func (c *DraftCmd) SetSave(v bool) { c.save = v }

func (c *DraftCmd) Name() string      { return "draft" }
func (c *DraftCmd) Aliases() []string { return nil }
func (c *DraftCmd) Synopsis() string  { return "AI task from a natural language description" }
func (c *DraftCmd) Usage() string     { return "taskmate draft [--save] <text...>" }
func (c *DraftCmd) NeedsAuth() bool   { return true }

func (c *DraftCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.save, "save", false, "")
}

func (c *DraftCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return userError(errOut, "text required")
	}

	advice := a.Advisor.TaskFromPrompt(ctx, prompt)
	p := output.NewPrinter(out, a.Themes.Current())
	if advice.Fallback {
		p.Advice(fmt.Sprintf("AI unavailable (%v); using your text as is", advice.Reason), true)
	}
	p.Line("title:       %s", advice.Value.Title)
	p.Line("description: %s", advice.Value.Description)

	if !c.save {
		return exitcode.Success
	}
	// Drafts are model output; like ask --save they skip the form rules.
	return addTask(ctx, a, service.NewTask{
		Title:       strings.TrimSpace(advice.Value.Title),
		Description: strings.TrimSpace(advice.Value.Description),
	}, out, errOut)
}
