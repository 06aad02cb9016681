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
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the login credentials (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email, c.password = email, password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Start a session" }
func (c *LoginCmd) Usage() string {
	return "taskmate login --email <email> --password <password>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	email, password := c.email, c.password
	if email == "" && len(args) > 0 {
		email = args[0]
	}
	if password == "" && len(args) > 1 {
		password = args[1]
	}
	if email == "" {
		email = a.Config.Email
	}
	if password == "" {
		password = a.Config.Password
	}

	session, err := a.Auth.Login(email, password)
	if err != nil {
		return report(errOut, err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "logged in as %s <%s>\n", session.Name, session.Email)
	}
	return exitcode.Success
}
