package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/output"
	"taskmate/internal/theme"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd shows or changes the color theme.
type ThemeCmd struct {
	list bool
}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or change the color theme" }
func (c *ThemeCmd) Usage() string     { return "taskmate theme [--list] [name]" }
func (c *ThemeCmd) NeedsAuth() bool   { return false }

func (c *ThemeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.list, "list", "l", false, "")
}

// SetList sets the --list flag (for testing).
func (c *ThemeCmd) SetList(v bool) { c.list = v }

func (c *ThemeCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	current := a.Themes.Current()

	if c.list {
		for _, th := range theme.All() {
			marker := "  "
			if th.Name == current.Name {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%-10s %s\n", marker, th.Name, output.Swatch(out, th))
		}
		return exitcode.Success
	}

	if len(args) == 0 {
		fmt.Fprintf(out, "%s %s\n", current.Icon, current.Name)
		return exitcode.Success
	}

	th, err := a.Themes.Set(args[0])
	if errors.Is(err, theme.ErrUnknown) {
		return userError(errOut, "unknown theme: %s (run: taskmate theme --list)", args[0])
	}
	if err != nil {
		// selection applies for this session even if it could not be saved
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%s %s\n", th.Icon, th.Name)
	}
	return exitcode.Success
}
