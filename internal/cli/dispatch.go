// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, name, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configDir string
		format    string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "config directory")
	fs.StringVar(&format, "format", "", "output format: text, json or yaml")
	fs.BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	fs.BoolVar(&debug, "debug", false, "print debug logs to stderr")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n\nFlags:\n%s", cmd.Synopsis(), cmd.Usage(), fs.FlagUsages())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if format != "" {
		cfg.Format = format
	}
	if !output.ValidFormat(cfg.Format) {
		fmt.Fprintf(errOut, "error: invalid format: %s (want text, json or yaml)\n", cfg.Format)
		return exitcode.UserError
	}
	if debug {
		cfg.Logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cfg.Log().Debug("dispatch", "command", cmd.Name(), "config_dir", cfg.Dir, "api_url", cfg.APIURL)

	// Commands that need a session fail before any network call when nobody
	// is logged in.
	var sess service.Session
	if cmd.NeedsAuth() {
		sess, err = session.NewStore(cfg.SessionPath()).Load()
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(errOut, "error: not logged in (run: taskboard login)")
			return exitcode.AuthError
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
	}

	var svc service.Service
	if d.factory != nil {
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		if sess.Valid() {
			svc.SetSession(sess)
		}
	}

	return cmd.Run(ctx, cfg, svc, fs.Args(), out, errOut)
}
