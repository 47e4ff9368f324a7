// Package exitcode defines the process exit codes of taskboard.
package exitcode

const (
	// Success: the command did what was asked.
	Success = 0

	// UserError: bad arguments or flags, unknown task, validation rejected by
	// the server.
	UserError = 1

	// AuthError: not logged in, or the server refused the credential.
	AuthError = 2

	// BackendError: the task API was unreachable, failed or answered with a
	// body that could not be decoded.
	BackendError = 3
)
