package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd creates an account on the task API.
type RegisterCmd struct {
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskboard register [--email <address>] [--password <password>] <username>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.email = ""
	c.password = ""
	fs.StringVarP(&c.email, "email", "e", "", "account email")
	fs.StringVar(&c.password, "password", "", "account password")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	account, err := svc.Register(ctx, service.Credentials{Username: username, Email: c.email, Password: password})
	if err != nil {
		return reportError(errOut, nil, err)
	}
	cfg.Log().Debug("account registered", "id", account.ID, "username", account.Username)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
