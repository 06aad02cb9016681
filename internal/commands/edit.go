package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/service"
	"taskmate/internal/validate"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       string
	description string
	fs          *pflag.FlagSet
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string {
	return "taskmate edit <ref> [--title <title>] [--description <text>]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.title, "title", "t", "", "")
	fs.StringVarP(&c.description, "description", "d", "", "")
	c.fs = fs
}

func (c *EditCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	var patch service.TaskPatch
	if c.changed("title") {
		patch.Title = service.String(c.title)
	}
	if c.changed("description") {
		patch.Description = service.String(c.description)
	}
	if patch.Empty() {
		return userError(errOut, "nothing to change (use --title or --description)")
	}

	patch, err := validate.TaskPatch(patch)
	if err != nil {
		return report(errOut, err)
	}

	task, num, code := resolveTask(ctx, a, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if _, err := a.Tasks.Update(ctx, task.ID, patch); err != nil {
		return report(errOut, err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "updated %d\n", num)
	}
	return exitcode.Success
}

// changed reports whether flag name was given on the command line.
// Without a flag set (direct calls in tests) a non-empty value counts.
func (c *EditCmd) changed(name string) bool {
	if c.fs != nil {
		return c.fs.Changed(name)
	}
	switch name {
	case "title":
		return c.title != ""
	case "description":
		return c.description != ""
	}
	return false
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { c.title = t }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { c.description = d }
