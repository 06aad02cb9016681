package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/devserver"
	"taskmate/internal/exitcode"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the local development task server.
type ServeCmd struct {
	addr string
	db   string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run a local task server (sqlite)" }
func (c *ServeCmd) Usage() string     { return "taskmate serve [--addr <host:port>] [--db <path>]" }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.db, "db", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = a.Config.Server.Addr
	}
	dbPath := c.db
	if dbPath == "" {
		dbPath = a.Config.ServerDBPath()
	}

	store, err := devserver.Open(dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: open %s: %v\n", dbPath, err)
		return exitcode.UserError
	}
	defer store.Close()

	ready := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- devserver.New(store, a.Log).ListenAndServe(ctx, addr, ready)
	}()

	select {
	case bound := <-ready:
		if !a.Config.Quiet {
			fmt.Fprintf(out, "serving tasks on http://%s (db %s)\n", bound, dbPath)
		}
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
