package detector

import (
	"errors"
	"os/exec"
	"strings"
)

// CommandDetector runs a command that should exit 0 if the service is running.
type CommandDetector struct{ Command string }

// buildShellAwareCommand constructs an *exec.Cmd for a detector command.
// Avoids invoking a shell unless obvious shell metacharacters are present (G204 mitigation).
func buildShellAwareCommand(cmdStr string) *exec.Cmd {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return getTrueCommand()
	}
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		return getShellCommand(cmdStr)
	}
	parts := strings.Fields(cmdStr)
	name := parts[0]
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	// #nosec G204
	return exec.Command(name, args...)
}

func (d CommandDetector) Alive() (bool, error) {
	if err := buildShellAwareCommand(d.Command).Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			// non-zero exit code means not alive
			return false, nil
		}
		// the check itself could not run
		return false, err
	}
	return true, nil
}

func (d CommandDetector) Describe() string { return "cmd:" + d.Command }
