package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/auth"
	"taskmate/internal/exitcode"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	in auth.RegisterInput
}

// SetInput sets the sign-up form (for testing).
func (c *RegisterCmd) SetInput(in auth.RegisterInput) { c.in = in }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and start a session" }
func (c *RegisterCmd) Usage() string {
	return "taskmate register --name <name> --email <email> --password <pw> --confirm <pw>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.in.Name, "name", "", "")
	fs.StringVar(&c.in.Email, "email", "", "")
	fs.StringVar(&c.in.Password, "password", "", "")
	fs.StringVar(&c.in.ConfirmPassword, "confirm", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	session, err := a.Auth.Register(c.in)
	if err != nil {
		return report(errOut, err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "welcome, %s <%s>\n", session.Name, session.Email)
	}
	return exitcode.Success
}
