package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    priorityFlag
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--description <text>] [--priority low|medium|high] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.description = ""
	c.priority = priorityFlag{}
	fs.StringVarP(&c.description, "description", "d", "", "task description")
	fs.VarP(&c.priority, "priority", "p", "task priority (default medium)")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	b := newBoard(cfg, svc)
	if err := b.Fetch(ctx); err != nil {
		return reportError(errOut, b, err)
	}

	dt, err := b.Create(ctx, service.NewTask{Title: title, Description: c.description}, c.priority.value)
	if err != nil {
		return reportError(errOut, b, err)
	}
	return printTask(cfg, out, errOut, dt)
}
