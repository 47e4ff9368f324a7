// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for the remote task and auth API.
// Commands and the board never talk HTTP directly.
type Service interface {
	// Register creates an account.
	Register(ctx context.Context, creds Credentials) (Account, error)

	// Login exchanges credentials for a session. It does not install the
	// session; callers pass it to SetSession.
	Login(ctx context.Context, creds Credentials) (Session, error)

	// Logout ends the server-side session.
	Logout(ctx context.Context) error

	// SetSession installs the bearer credential and user identity.
	SetSession(s Session)

	// ClearSession drops the bearer credential and user identity.
	ClearSession()

	// ListTasks returns the user's tasks. Only Completed is sent to the server.
	ListTasks(ctx context.Context, filter ListFilter) ([]Task, error)

	// CreateTask creates a task. Priority is never sent.
	CreateTask(ctx context.Context, fields NewTask) (Task, error)

	// UpdateTask edits a task.
	UpdateTask(ctx context.Context, id ID, fields TaskUpdate) (Task, error)

	// DeleteTask deletes a task. An empty response body is a success.
	DeleteTask(ctx context.Context, id ID) (DeleteAck, error)

	// SetCompletion sets the completion flag of a task.
	SetCompletion(ctx context.Context, id ID, completed bool) (Task, error)
}
