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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskmate help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			return userError(errOut, "unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "Usage: %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		if cmd.NeedsAuth() {
			fmt.Fprintln(out, "\nRequires a session (login in the shell, or --email/--password).")
		}
		return exitcode.Success
	}

	fmt.Fprint(out, "Usage:\n")
	fmt.Fprintf(out, "  %-62s %s\n", "taskmate", "List tasks")
	for _, cmd := range DefaultRegistry.InOrder() {
		fmt.Fprintf(out, "  %-62s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprintf(out, "  %-62s %s\n", "taskmate shell", "Interactive session (exit or quit to leave)")
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task references:
  N                Task number as printed by list
  id:<id>          Task id

Common flags:
  --config <dir>       Override config directory
  --quiet, -q          Suppress informational output
  --debug              Print debug logs to stderr
  --email <email>      Log in before running the command
  --password <pw>      Password for --email
`
