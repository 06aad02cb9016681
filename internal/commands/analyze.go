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
	Register(&AnalyzeCmd{})
}

// AnalyzeCmd asks the assistant for an execution order of all tasks.
type AnalyzeCmd struct{}

func (c *AnalyzeCmd) Name() string      { return "analyze" }
func (c *AnalyzeCmd) Aliases() []string { return nil }
func (c *AnalyzeCmd) Synopsis() string  { return "AI priority analysis of all tasks" }
func (c *AnalyzeCmd) Usage() string     { return "taskmate analyze" }
func (c *AnalyzeCmd) NeedsAuth() bool   { return true }

func (c *AnalyzeCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AnalyzeCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if err := a.Tasks.Activate(ctx); err != nil {
		return report(errOut, err)
	}
	p := output.NewPrinter(out, a.Themes.Current())
	if a.Tasks.Len() == 0 {
		p.Line("no tasks to analyze")
		return exitcode.Success
	}

	advice := a.Advisor.PriorityAnalysis(ctx, a.Tasks.Tasks())
	p.Advice(advice.Value, advice.Fallback)
	return exitcode.Success
}
