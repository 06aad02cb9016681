package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/service"
	"taskmate/internal/validate"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	done        bool
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(d string) {
	c.description = d
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskmate add -d <description> [--done] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "")
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *AddCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return userError(errOut, "title required")
	}

	form, err := validate.Task(title, c.description)
	if err != nil {
		return report(errOut, err)
	}

	return addTask(ctx, a, service.NewTask{
		Title:       form.Title,
		Description: form.Description,
		Completed:   c.done,
	}, out, errOut)
}

// addTask activates the store, adds task and prints its new position.
func addTask(ctx context.Context, a *app.App, task service.NewTask, out, errOut io.Writer) int {
	if err := a.Tasks.Activate(ctx); err != nil {
		return report(errOut, err)
	}
	created, err := a.Tasks.Add(ctx, task)
	if err != nil {
		return report(errOut, err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "added %d: %s\n", a.Tasks.Len(), created.Title)
	}
	return exitcode.Success
}
