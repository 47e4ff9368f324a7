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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}
	fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if fs.HasFlags() {
		fmt.Fprintf(out, "\nFlags:\n%s", fs.FlagUsages())
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                          List tasks
  taskboard list [--completed true|false|all] [--priority <p>]
  taskboard add [--description <text>] [--priority <p>] <title...>
  taskboard create ...                               Same as add
  taskboard edit [--title <text>] [--description <text>] [--priority <p>] <id>
  taskboard toggle <id>                              Mark completed or open again
  taskboard done <id>                                Same as toggle
  taskboard rm <id>
  taskboard register [--email <address>] [--password <pw>] <username>
  taskboard login [--password <pw>] <username>
  taskboard logout
  taskboard help [command]
  taskboard version

Priorities: low, medium, high. Tasks without one are medium.

Common flags:
  --config <dir>           Override config directory
  --format text|json|yaml  Output format
  --quiet                  Suppress informational output
  --debug                  Print debug logs to stderr

Environment:
  TASKBOARD_API_URL   Task API base URL (default http://localhost:8000)
  TASKBOARD_TIMEOUT   Per-request timeout (default 10s)
  TASKBOARD_FORMAT    Default output format
  TASKBOARD_PASSWORD  Password for login and register
`
