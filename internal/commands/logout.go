package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "End the session and remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "taskboard logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *pflag.FlagSet) {}

// Run ends the session on the server, then removes the local session even
// if the server call failed.
func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store := session.NewStore(cfg.SessionPath())
	sess, err := store.Load()
	if errors.Is(err, session.ErrNoSession) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}
	if err != nil {
		cfg.Log().Warn("discarding unreadable session", "error", err)
	}

	if err == nil && svc != nil {
		svc.SetSession(sess)
		if err := svc.Logout(ctx); err != nil {
			fmt.Fprintf(errOut, "warning: server logout failed: %v\n", err)
		}
	}
	if svc != nil {
		svc.ClearSession()
	}

	if err := store.Remove(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
