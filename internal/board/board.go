// Package board keeps the in-memory task view in step with the task API.
//
// A Board holds the canonical list (every fetched task with its priority),
// the displayed list (the canonical list after the current filter) and the
// current error message. Mutations are applied to both lists only after the
// API confirms them, so a failed action leaves the board as it was.
//
// A Board is driven by one caller at a time and is not safe for concurrent use.
package board

import (
	"context"
	"io"
	"log/slog"

	"taskboard/internal/service"
)

// Annotations is the client-side priority overlay.
type Annotations interface {
	Get(id service.ID) service.Priority
	Set(id service.ID, p service.Priority)
	Remove(id service.ID)
	AttachAll(tasks []service.Task) []service.DisplayedTask
}

// Board coordinates the task API, the priority overlay and the two lists.
type Board struct {
	svc    service.Service
	notes  Annotations
	logger *slog.Logger

	all     []service.DisplayedTask
	shown   []service.DisplayedTask
	filter  service.Filter
	errMsg  string
	loading bool
}

// New returns an empty Board. A nil logger discards output.
func New(svc service.Service, notes Annotations, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Board{svc: svc, notes: notes, logger: logger}
}

// Edit is a task change. Priority is applied locally; the other fields go to
// the server. Nil or empty fields are left unchanged.
type Edit struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    service.Priority
}

// Fetch reloads the canonical list. Only the completion filter is sent to the
// server; the full filter is re-applied locally.
func (b *Board) Fetch(ctx context.Context) error {
	b.loading = true
	defer func() { b.loading = false }()

	tasks, err := b.svc.ListTasks(ctx, service.ListFilter{Completed: b.filter.Completed})
	if err != nil {
		return b.fail("fetch", "failed to fetch tasks", err)
	}

	b.all = b.notes.AttachAll(tasks)
	b.recompute()
	b.errMsg = ""
	b.logger.Debug("tasks fetched", "total", len(b.all), "shown", len(b.shown))
	return nil
}

// Create adds a task with the chosen priority (medium if empty). The new task
// is prepended to both lists without checking it against the active filter.
func (b *Board) Create(ctx context.Context, fields service.NewTask, p service.Priority) (service.DisplayedTask, error) {
	if p == "" {
		p = service.DefaultPriority
	}

	task, err := b.svc.CreateTask(ctx, fields)
	if err != nil {
		return service.DisplayedTask{}, b.fail("create", "failed to add task", err)
	}

	b.notes.Set(task.ID, p)
	dt := service.DisplayedTask{Task: task, Priority: p}

	// TODO: check dt against b.filter before prepending to the displayed list;
	// a task created under a non-matching filter shows until the next recompute.
	b.all = prepend(b.all, dt)
	b.shown = prepend(b.shown, dt)
	b.errMsg = ""
	b.logger.Debug("task created", "id", task.ID, "priority", p)
	return dt, nil
}

// Update edits a task. A non-empty Priority is stored locally; otherwise the
// previously known priority is kept.
func (b *Board) Update(ctx context.Context, id service.ID, edit Edit) (service.DisplayedTask, error) {
	remote := service.TaskUpdate{
		Title:       edit.Title,
		Description: edit.Description,
		Completed:   edit.Completed,
	}

	task, err := b.svc.UpdateTask(ctx, id, remote)
	if err != nil {
		return service.DisplayedTask{}, b.fail("update", "failed to update task", err)
	}

	p := edit.Priority
	if p != "" {
		b.notes.Set(id, p)
	} else {
		p = b.knownPriority(id)
	}

	dt := service.DisplayedTask{Task: task, Priority: p}
	b.replace(id, dt)
	b.errMsg = ""
	b.logger.Debug("task updated", "id", id, "priority", p)
	return dt, nil
}

// Delete removes a task and its priority annotation.
func (b *Board) Delete(ctx context.Context, id service.ID) error {
	if _, err := b.svc.DeleteTask(ctx, id); err != nil {
		return b.fail("delete", "failed to delete task", err)
	}

	b.notes.Remove(id)
	b.all = without(b.all, id)
	b.shown = without(b.shown, id)
	b.errMsg = ""
	b.logger.Debug("task deleted", "id", id)
	return nil
}

// ToggleCompletion flips a task's completion flag. completed is the state the
// caller currently shows. The server response carries no priority, so the
// previously known one is kept.
func (b *Board) ToggleCompletion(ctx context.Context, id service.ID, completed bool) (service.DisplayedTask, error) {
	task, err := b.svc.SetCompletion(ctx, id, !completed)
	if err != nil {
		return service.DisplayedTask{}, b.fail("toggle", "failed to update task completion", err)
	}

	dt := service.DisplayedTask{Task: task, Priority: b.knownPriority(id)}
	b.replace(id, dt)
	b.errMsg = ""
	b.logger.Debug("task completion toggled", "id", id, "completed", task.Completed)
	return dt, nil
}

// SetFilter replaces the filter and re-derives the displayed list from the
// canonical list. It never calls the server.
func (b *Board) SetFilter(f service.Filter) {
	b.filter = f
	b.recompute()
}

// Filter returns the current filter.
func (b *Board) Filter() service.Filter { return b.filter }

// AllTasks returns a copy of the canonical list.
func (b *Board) AllTasks() []service.DisplayedTask { return clone(b.all) }

// Tasks returns a copy of the displayed list.
func (b *Board) Tasks() []service.DisplayedTask { return clone(b.shown) }

// Err returns the current error message, or "" after a successful action.
func (b *Board) Err() string { return b.errMsg }

// Loading reports whether a fetch is in progress.
func (b *Board) Loading() bool { return b.loading }

// Find looks a task up in the canonical list.
func (b *Board) Find(id service.ID) (service.DisplayedTask, bool) {
	for _, t := range b.all {
		if t.ID == id {
			return t, true
		}
	}
	return service.DisplayedTask{}, false
}

// Derive applies f to tasks: completion first, then priority.
func Derive(tasks []service.DisplayedTask, f service.Filter) []service.DisplayedTask {
	out := make([]service.DisplayedTask, 0, len(tasks))
	for _, t := range tasks {
		if f.MatchesCompleted(t) {
			out = append(out, t)
		}
	}
	n := 0
	for _, t := range out {
		if f.MatchesPriority(t) {
			out[n] = t
			n++
		}
	}
	return out[:n]
}

func (b *Board) recompute() {
	b.shown = Derive(b.all, b.filter)
}

// fail records err as the current message and returns it unchanged.
func (b *Board) fail(action, fallback string, err error) error {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	b.errMsg = msg
	b.logger.Debug("board action failed", "action", action, "error", err)
	return err
}

func (b *Board) knownPriority(id service.ID) service.Priority {
	if t, ok := b.Find(id); ok && t.Priority != "" {
		return t.Priority
	}
	return b.notes.Get(id)
}

// replace swaps the entry for id in both lists.
func (b *Board) replace(id service.ID, dt service.DisplayedTask) {
	for i := range b.all {
		if b.all[i].ID == id {
			b.all[i] = dt
		}
	}
	for i := range b.shown {
		if b.shown[i].ID == id {
			b.shown[i] = dt
		}
	}
}

func prepend(list []service.DisplayedTask, dt service.DisplayedTask) []service.DisplayedTask {
	out := make([]service.DisplayedTask, 0, len(list)+1)
	out = append(out, dt)
	return append(out, list...)
}

func without(list []service.DisplayedTask, id service.ID) []service.DisplayedTask {
	out := make([]service.DisplayedTask, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func clone(list []service.DisplayedTask) []service.DisplayedTask {
	return append([]service.DisplayedTask(nil), list...)
}
