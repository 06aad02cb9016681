package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
)

func init() {
	Register(&SuggestCmd{})
}

// SuggestCmd asks the assistant for tips on one task.
type SuggestCmd struct{}

func (c *SuggestCmd) Name() string      { return "suggest" }
func (c *SuggestCmd) Aliases() []string { return nil }
func (c *SuggestCmd) Synopsis() string  { return "AI tips for completing a task" }
func (c *SuggestCmd) Usage() string     { return "taskmate suggest <ref>" }
func (c *SuggestCmd) NeedsAuth() bool   { return true }

func (c *SuggestCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *SuggestCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, a, args, errOut)
	if code != exitcode.Success {
		return code
	}

	advice := a.Advisor.Suggestions(ctx, task.Title, task.Description)
	output.NewPrinter(out, a.Themes.Current()).Advice(advice.Value, advice.Fallback)
	return exitcode.Success
}
