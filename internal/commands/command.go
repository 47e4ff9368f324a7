// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth reports whether the command requires a stored session.
	// The dispatcher installs that session on svc before Run.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags and resets their values.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command with the positional arguments left after flag
	// parsing and returns the exit code. svc may be nil for commands that
	// never talk to the task API.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
