package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
)

func init() {
	Register(&RefreshCmd{})
}

// RefreshCmd reloads the task list from the server.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string      { return "refresh" }
func (c *RefreshCmd) Aliases() []string { return nil }
func (c *RefreshCmd) Synopsis() string  { return "Reload tasks from the server" }
func (c *RefreshCmd) Usage() string     { return "taskmate refresh" }
func (c *RefreshCmd) NeedsAuth() bool   { return true }

func (c *RefreshCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if err := a.Tasks.Refresh(ctx); err != nil {
		return report(errOut, err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%d tasks\n", a.Tasks.Len())
	}
	return exitcode.Success
}
