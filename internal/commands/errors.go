package commands

import (
	"errors"
	"fmt"
	"io"

	"taskmate/internal/exitcode"
	"taskmate/internal/service"
	"taskmate/internal/validate"
)

// report prints err in the CLI's error format and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	var fe validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		for _, field := range fe.Fields() {
			fmt.Fprintf(errOut, "error: %s: %s\n", field, fe[field])
		}
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// userError prints a user error and returns exitcode.UserError.
func userError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}
