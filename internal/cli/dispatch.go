package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"

	"taskmate/internal/app"
	"taskmate/internal/commands"
	"taskmate/internal/config"
	"taskmate/internal/exitcode"
	"taskmate/internal/logging"
	"taskmate/internal/validate"
)

// AppFactory creates the App for one session.
// Used to inject the task gateway and AI completer during dispatch.
type AppFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app.App, error)

// shellName is the dispatcher built-in that keeps one App across many commands.
const shellName = "shell"

const shellPrompt = "taskmate> "

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  AppFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and app factory.
func NewDispatcher(registry *commands.Registry, factory AppFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput sets the reader the shell reads lines from.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// commonFlags are accepted by every one-shot command and by shell.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	email     string
	password  string
}

// register adds the common flags that fs does not define yet; a command's
// own --email/--password take precedence.
func (o *commonFlags) register(fs *pflag.FlagSet) {
	if fs.Lookup("config") == nil {
		fs.StringVar(&o.configDir, "config", "", "")
	}
	if fs.Lookup("quiet") == nil {
		fs.BoolVarP(&o.quiet, "quiet", "q", false, "")
	}
	if fs.Lookup("debug") == nil {
		fs.BoolVar(&o.debug, "debug", false, "")
	}
	if fs.Lookup("email") == nil {
		fs.StringVar(&o.email, "email", "", "")
	}
	if fs.Lookup("password") == nil {
		fs.StringVar(&o.password, "password", "", "")
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if cmdName == shellName {
		return d.shell(ctx, args[1:], out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	var opts commonFlags
	fs := newFlagSet(cmd.Name())
	cmd.RegisterFlags(fs)
	opts.register(fs)

	positional, code, done := parseFlags(fs, cmd, args[1:], out, errOut)
	if done {
		return code
	}

	a, code := d.newApp(ctx, opts, errOut)
	if a == nil {
		return code
	}

	if cmd.NeedsAuth() {
		if code := ensureSession(a, errOut); code != exitcode.Success {
			return code
		}
	}
	return cmd.Run(ctx, a, positional, out, errOut)
}

// newApp loads config, applies the common flags and builds the session.
// A nil App means an error has been printed; code holds the exit code.
func (d *Dispatcher) newApp(ctx context.Context, opts commonFlags, errOut io.Writer) (*app.App, int) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	cfg.Quiet = opts.quiet
	cfg.Debug = opts.debug
	if opts.email != "" {
		cfg.Email = opts.email
	}
	if opts.password != "" {
		cfg.Password = opts.password
	}

	log := logging.NewLogger(logging.Options{Level: cfg.LogLevel(), Writer: errOut})
	log.Debug("config loaded", "dir", cfg.Dir, "api", cfg.API.URL, "ai_provider", cfg.AI.Provider)

	a, err := d.factory(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	return a, exitcode.Success
}

// ensureSession logs in with the configured credentials unless a session exists.
func ensureSession(a *app.App, errOut io.Writer) int {
	if a.Auth.Authenticated() {
		return exitcode.Success
	}
	if a.Config.Email == "" && a.Config.Password == "" {
		fmt.Fprintln(errOut, "error: not logged in (pass --email and --password, or run: taskmate shell)")
		return exitcode.AuthError
	}
	if _, err := a.Auth.Login(a.Config.Email, a.Config.Password); err != nil {
		var fe validate.FieldErrors
		if errors.As(err, &fe) {
			for _, field := range fe.Fields() {
				fmt.Fprintf(errOut, "error: auth error: %s: %s\n", field, fe[field])
			}
		} else {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		}
		return exitcode.AuthError
	}
	return exitcode.Success
}

// shell reads commands from d.in until EOF, exit or quit. Every line runs
// against the same App, so login, the loaded tasks and the theme carry over.
func (d *Dispatcher) shell(ctx context.Context, args []string, out, errOut io.Writer) int {
	var opts commonFlags
	fs := newFlagSet(shellName)
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(out, "Usage: taskmate shell")
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", fs.Arg(0))
		return exitcode.UserError
	}

	a, code := d.newApp(ctx, opts, errOut)
	if a == nil {
		return code
	}
	if a.Config.Email != "" || a.Config.Password != "" {
		if code := ensureSession(a, errOut); code != exitcode.Success {
			return code
		}
	}

	prompt := func() {
		if !a.Config.Quiet {
			fmt.Fprint(out, shellPrompt)
		}
	}

	parser := shellwords.NewParser()
	scanner := bufio.NewScanner(d.in)
	prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			prompt()
			continue
		}

		words, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			prompt()
			continue
		}
		if len(words) == 0 {
			prompt()
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			return exitcode.Success
		}

		d.runLine(ctx, a, words, out, errOut)
		prompt()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !a.Config.Quiet {
		fmt.Fprintln(out)
	}
	return exitcode.Success
}

// runLine dispatches one shell line. Common flags are not accepted here;
// they were fixed when the shell started.
func (d *Dispatcher) runLine(ctx context.Context, a *app.App, words []string, out, errOut io.Writer) int {
	if words[0] == shellName {
		fmt.Fprintln(errOut, "error: already in a shell")
		return exitcode.UserError
	}
	cmd, ok := d.registry.Find(words[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", words[0])
		return exitcode.UserError
	}

	fs := newFlagSet(cmd.Name())
	cmd.RegisterFlags(fs)
	positional, code, done := parseFlags(fs, cmd, words[1:], out, errOut)
	if done {
		return code
	}

	if cmd.NeedsAuth() && !a.Auth.Authenticated() {
		fmt.Fprintln(errOut, "error: not logged in (run: login --email <email> --password <password>)")
		return exitcode.AuthError
	}
	code = cmd.Run(ctx, a, positional, out, errOut)
	a.Log.Debug("command finished", "command", cmd.Name(), "code", code)
	return code
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	return fs
}

// parseFlags parses args into fs. When done is true the command must not
// run and code is the exit code; -h/--help prints the command usage.
func parseFlags(fs *pflag.FlagSet, cmd commands.Command, args []string, out, errOut io.Writer) (positional []string, code int, done bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return nil, exitcode.Success, true
		}
		// pflag messages already read "unknown flag: --x",
		// "flag needs an argument: --x" or "invalid argument ..."
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError, true
	}
	return fs.Args(), exitcode.Success, false
}
