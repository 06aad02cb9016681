package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(f string) {
	c.format = f
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks with completion progress" }
func (c *ListCmd) Usage() string     { return "taskmate list [--format text|json|yaml]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", output.FormatText, "")
}

func (c *ListCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	format := c.format
	if format == "" {
		format = output.FormatText
	}
	if !output.ValidFormat(format) {
		return userError(errOut, "invalid format: %s (want text, json or yaml)", format)
	}
	if len(args) > 0 {
		return userError(errOut, "unexpected argument: %s", args[0])
	}

	if err := a.Tasks.Activate(ctx); err != nil {
		return report(errOut, err)
	}
	list := a.Tasks.Tasks()

	switch format {
	case output.FormatJSON:
		if err := output.JSON(out, list); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	case output.FormatYAML:
		if err := output.YAML(out, list); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	if len(list) == 0 {
		if !a.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	p := output.NewPrinter(out, a.Themes.Current())
	if !a.Config.Quiet {
		p.Progress(a.Tasks.Progress())
	}
	p.Tasks(list)
	return exitcode.Success
}
