package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskmate/internal/app"
	"taskmate/internal/exitcode"
	"taskmate/internal/service"
)

// idPrefix marks an explicit task id reference.
const idPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the list, 0 if ID is set
	ID  string // explicit task id
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in args[0].
//
// Parsing rules:
// 1. All digits → position in the list as printed by `list`
// 2. id:<id> → explicit task id
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := args[0]

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.HasPrefix(ref, idPrefix) {
		id := strings.TrimSpace(strings.TrimPrefix(ref, idPrefix))
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
}

// String returns the reference as typed.
func (r TaskRef) String() string {
	if r.ID != "" {
		return idPrefix + r.ID
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveTask loads the store if needed and finds the task named by args[0].
// It returns the task, its 1-based position and an exit code; the code is
// non-zero when an error has already been printed.
func resolveTask(ctx context.Context, a *app.App, args []string, errOut io.Writer) (service.Task, int, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return service.Task{}, 0, userError(errOut, "%v", err)
	}

	if err := a.Tasks.Activate(ctx); err != nil {
		return service.Task{}, 0, report(errOut, err)
	}

	list := a.Tasks.Tasks()
	if ref.ID != "" {
		for i, t := range list {
			if t.ID == ref.ID {
				return t, i + 1, exitcode.Success
			}
		}
		return service.Task{}, 0, userError(errOut, "task not found: %s", ref)
	}

	if ref.Num > len(list) {
		return service.Task{}, 0, userError(errOut, "task number out of range: %d", ref.Num)
	}
	return list[ref.Num-1], ref.Num, exitcode.Success
}
