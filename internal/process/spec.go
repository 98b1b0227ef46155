package process

import (
	"os/exec"
	"strings"
	"time"

	"github.com/minseok-c/launchpad/internal/detector"
	"github.com/minseok-c/launchpad/internal/logger"
)

// DetectorConfig represents a detector configuration that can be parsed from config files.
type DetectorConfig struct {
	Type    string `json:"type" mapstructure:"type"`
	Path    string `json:"path" mapstructure:"path"`
	PID     int    `json:"pid" mapstructure:"pid"`
	Command string `json:"command" mapstructure:"command"`
	Name    string `json:"name" mapstructure:"name"`
	Cmdline bool   `json:"cmdline" mapstructure:"cmdline"`
	URL     string `json:"url" mapstructure:"url"`
}

// Spec describes an external service the launcher knows how to detect and start.
// The launcher starts a spec at most once per run and never stops it; launched
// services are expected to outlive the launcher.
type Spec struct {
	Name          string              `json:"name"`
	Command       string              `json:"command"`        // command to start the service (shell-aware)
	WorkDir       string              `json:"work_dir"`       // optional working dir
	Env           []string            `json:"env"`            // optional extra env
	PaneTitle     string              `json:"pane_title"`     // terminal pane title; defaults to Name
	Color         string              `json:"color"`          // cosmetic pane/status color
	Interactive   bool                `json:"interactive"`    // runs in a terminal pane instead of a background spawn
	ReadyTimeout  time.Duration       `json:"ready_timeout"`  // bounded readiness probe after a start
	ReadyInterval time.Duration       `json:"ready_interval"` // detect poll interval during the readiness probe
	Detectors     []detector.Detector `json:"-" mapstructure:"-"`
	DetectorCfgs  []DetectorConfig    `json:"detectors" mapstructure:"detectors"` // for config parsing
	Log           logger.Config       `json:"log"`                                // child stdout/stderr destinations
}

// Title returns the pane title, falling back to the service name.
func (s *Spec) Title() string {
	if s.PaneTitle != "" {
		return s.PaneTitle
	}
	return s.Name
}

// BuildCommand constructs an *exec.Cmd for the given spec.Command.
// It avoids invoking a shell when not necessary, and it also respects
// an explicit shell invocation already present in the command string
// (e.g., "sh -c 'echo hi'"), avoiding double-wrapping with another shell.
func (s *Spec) BuildCommand() *exec.Cmd {
	cmdStr := strings.TrimSpace(s.Command)
	if cmdStr == "" {
		return getTrueCommand()
	}
	// If the command already explicitly uses a shell, honor it without adding another layer.
	if _, afterC, ok := parseExplicitShell(cmdStr); ok {
		// Always use absolute shell path to avoid PATH dependency when Env is overridden.
		// #nosec G204
		return exec.Command("/bin/sh", "-c", afterC)
	}
	// Fallback: when metacharacters are present, use the platform shell
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

// parseExplicitShell detects patterns like "sh -c <ARG>" or "/bin/sh -c <ARG>" at the
// beginning of cmdStr. It returns (shellPath, afterCArg, true) when matched.
// It preserves the substring after "-c " verbatim to avoid breaking quoting.
func parseExplicitShell(cmdStr string) (string, string, bool) {
	trim := strings.TrimLeft(cmdStr, " \t")
	candidates := []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "}
	for _, p := range candidates {
		if strings.HasPrefix(trim, p) {
			after := trim[len(p):]
			// If after is wrapped in single or double quotes, strip one pair so that
			// we pass the actual script to the shell (the outer quotes would otherwise
			// inhibit parsing/redirection inside the script).
			if n := len(after); n >= 2 {
				if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
					after = after[1 : n-1]
				}
			}
			return strings.Fields(p)[0], after, true
		}
	}
	return "", "", false
}
