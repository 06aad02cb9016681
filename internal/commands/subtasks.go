package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
	"taskmate/internal/service"
	"taskmate/internal/validate"
)

func init() {
	Register(&SubtasksCmd{})
}

// SubtasksCmd breaks a task into steps, optionally adding them as tasks.
type SubtasksCmd struct {
	add bool
}

// SetAdd sets the --add flag (for testing).
func (c *SubtasksCmd) SetAdd(v bool) { c.add = v }

func (c *SubtasksCmd) Name() string      { return "subtasks" }
func (c *SubtasksCmd) Aliases() []string { return nil }
func (c *SubtasksCmd) Synopsis() string  { return "AI breakdown of a task into steps" }
func (c *SubtasksCmd) Usage() string     { return "taskmate subtasks [--add] <ref>" }
func (c *SubtasksCmd) NeedsAuth() bool   { return true }

func (c *SubtasksCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.add, "add", false, "")
}

func (c *SubtasksCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(ctx, a, args, errOut)
	if code != exitcode.Success {
		return code
	}

	advice := a.Advisor.Subtasks(ctx, task.Title, task.Description)
	p := output.NewPrinter(out, a.Themes.Current())
	if advice.Fallback {
		p.Advice(advice.Value[0], true)
		return exitcode.Success
	}
	if len(advice.Value) == 0 {
		p.Line("no subtasks suggested")
		return exitcode.Success
	}
	for i, step := range advice.Value {
		p.Line("%4d  %s", i+1, step)
	}
	if !c.add {
		return exitcode.Success
	}

	added := 0
	for _, step := range advice.Value {
		form, err := validate.Task(step, fmt.Sprintf("Subtask of %s", task.Title))
		if err != nil {
			fmt.Fprintf(errOut, "warning: skipped %q: %v\n", step, err)
			continue
		}
		if _, err := a.Tasks.Add(ctx, service.NewTask{Title: form.Title, Description: form.Description}); err != nil {
			return report(errOut, err)
		}
		added++
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "added %d subtasks\n", added)
	}
	return exitcode.Success
}
