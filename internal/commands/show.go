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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show one task in detail" }
func (c *ShowCmd) Usage() string     { return "taskmate show <ref>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	task, num, code := resolveTask(ctx, a, args, errOut)
	if code != exitcode.Success {
		return code
	}
	output.NewPrinter(out, a.Themes.Current()).Detail(num, task)
	return exitcode.Success
}
