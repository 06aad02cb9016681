package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task as completed" }
func (c *DoneCmd) Usage() string     { return "taskmate done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	return setCompleted(ctx, a, args, true, out, errOut)
}

// UndoCmd marks a task as pending again.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return nil }
func (c *UndoCmd) Synopsis() string  { return "Mark a task as pending" }
func (c *UndoCmd) Usage() string     { return "taskmate undo <ref>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	return setCompleted(ctx, a, args, false, out, errOut)
}

// setCompleted is the shared implementation for done and undo.
func setCompleted(ctx context.Context, a *app.App, args []string, completed bool, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, a, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, err := a.Tasks.Update(ctx, task.ID, service.TaskPatch{Completed: service.Bool(completed)}); err != nil {
		return report(errOut, err)
	}

	if !a.Config.Quiet {
		p := a.Tasks.Progress()
		fmt.Fprintf(out, "ok (%d of %d completed)\n", p.Completed, p.Total)
	}
	return exitcode.Success
}
