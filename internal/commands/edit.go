package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
	priority    priorityFlag
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's title, description or priority" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <text>] [--description <text>] [--priority low|medium|high] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.title = optionalString{}
	c.description = optionalString{}
	c.priority = priorityFlag{}
	fs.VarP(&c.title, "title", "t", "new title")
	fs.VarP(&c.description, "description", "d", "new description")
	fs.VarP(&c.priority, "priority", "p", "new priority")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	edit := board.Edit{
		Title:       c.title.Ptr(),
		Description: c.description.Ptr(),
		Priority:    c.priority.value,
	}
	if edit.Title == nil && edit.Description == nil && edit.Priority == "" {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --description or --priority)")
		return exitcode.UserError
	}
	if edit.Title != nil && strings.TrimSpace(*edit.Title) == "" {
		fmt.Fprintln(errOut, "error: title cannot be empty")
		return exitcode.UserError
	}

	b := newBoard(cfg, svc)
	task, code := lookupTask(ctx, b, args, errOut)
	if code != exitcode.Success {
		return code
	}

	dt, err := b.Update(ctx, task.ID, edit)
	if err != nil {
		return reportError(errOut, b, err)
	}
	return printTask(cfg, out, errOut, dt)
}
