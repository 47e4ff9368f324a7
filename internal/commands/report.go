package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

// reportError prints err on errOut and maps it to an exit code. When b is
// non-nil its current message is printed, which is what a dashboard would
// show for the failed action.
func reportError(errOut io.Writer, b *board.Board, err error) int {
	msg := err.Error()
	if b != nil && b.Err() != "" {
		msg = b.Err()
	}

	if service.IsAuthError(err) {
		fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
		return exitcode.AuthError
	}

	var reqErr *service.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode < http.StatusInternalServerError {
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: backend error: %s\n", msg)
	return exitcode.BackendError
}

// printTask reports a created or changed task: "ok" for text output, the
// full record for json and yaml.
func printTask(cfg *config.Config, out, errOut io.Writer, dt service.DisplayedTask) int {
	if cfg.Format == output.FormatJSON || cfg.Format == output.FormatYAML {
		if err := output.NewPrinter(out, cfg.Format).Task(dt); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
