package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also what `taskboard` with no
// arguments runs.
type ListCmd struct {
	completed completedFlag
	priority  priorityFlag
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskboard list [--completed true|false|all] [--priority low|medium|high]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.completed = completedFlag{}
	c.priority = priorityFlag{}
	fs.VarP(&c.completed, "completed", "c", "show only completed (true) or open (false) tasks")
	fs.VarP(&c.priority, "priority", "p", "show only tasks with this priority")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	b := newBoard(cfg, svc)
	b.SetFilter(service.Filter{Completed: c.completed.value, Priority: c.priority.value})
	if err := b.Fetch(ctx); err != nil {
		return reportError(errOut, b, err)
	}

	tasks := b.Tasks()
	if len(tasks) == 0 && (cfg.Format == "" || cfg.Format == output.FormatText) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if err := output.NewPrinter(out, cfg.Format).Tasks(tasks); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
