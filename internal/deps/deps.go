package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Status reports whether an external binary can be executed.
type Status struct {
	Name string
	// Command is the resolved path when Available, otherwise the command as given.
	Command   string
	Available bool
	Detail    string
}

// Lookup resolves command, either a path or a bare name searched on PATH, and
// reports the outcome under the display name.
func Lookup(name, command string) Status {
	status := Status{Name: name, Command: strings.TrimSpace(command)}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}

	resolved, err := exec.LookPath(status.Command)
	switch {
	case err == nil:
		status.Command = resolved
		status.Available = true
	case errors.Is(err, exec.ErrNotFound):
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
	default:
		status.Detail = fmt.Sprintf("binary %q not executable: %v", status.Command, err)
	}
	return status
}
