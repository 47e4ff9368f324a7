package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd flips a task between open and completed.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string     { return "taskboard toggle <id>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	b := newBoard(cfg, svc)
	task, code := lookupTask(ctx, b, args, errOut)
	if code != exitcode.Success {
		return code
	}

	dt, err := b.ToggleCompletion(ctx, task.ID, task.Completed)
	if err != nil {
		return reportError(errOut, b, err)
	}
	return printTask(cfg, out, errOut, dt)
}
