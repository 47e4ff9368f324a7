package commands

import (
	"context"
	"fmt"
	"io"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/priority"
	"taskboard/internal/service"
)

// newBoard wires svc to the priority file in the config directory.
func newBoard(cfg *config.Config, svc service.Service) *board.Board {
	notes := priority.NewStore(priority.NewFileBlob(cfg.PrioritiesPath()), cfg.Log())
	return board.New(svc, notes, cfg.Log())
}

// lookupTask parses the task reference in args, loads the board and returns
// the referenced task. On failure the error has been reported and the exit
// code is non-zero.
func lookupTask(ctx context.Context, b *board.Board, args []string, errOut io.Writer) (service.DisplayedTask, int) {
	id, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.DisplayedTask{}, exitcode.UserError
	}

	if err := b.Fetch(ctx); err != nil {
		return service.DisplayedTask{}, reportError(errOut, b, err)
	}

	task, ok := b.Find(id)
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %s\n", id)
		return service.DisplayedTask{}, exitcode.UserError
	}
	return task, exitcode.Success
}
