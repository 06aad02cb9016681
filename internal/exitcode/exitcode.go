// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid form fields, unknown task reference).
	UserError = 1

	// AuthError indicates an auth/config error (no session, unreadable config).
	AuthError = 2

	// BackendError indicates a task service or network error.
	BackendError = 3
)
