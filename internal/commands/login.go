package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session" }
func (c *LoginCmd) Usage() string     { return "taskboard login [--password <password>] <username>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.password = ""
	fs.StringVar(&c.password, "password", "", "account password")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	username, err := usernameArg(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	password, err := resolvePassword(c.password, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess, err := svc.Login(ctx, service.Credentials{Username: username, Password: password})
	if err != nil {
		return reportError(errOut, nil, err)
	}
	if sess.Username == "" {
		sess.Username = username
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := session.NewStore(cfg.SessionPath()).Save(sess); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	svc.SetSession(sess)
	cfg.Log().Debug("logged in", "user_id", sess.UserID, "username", sess.Username)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
