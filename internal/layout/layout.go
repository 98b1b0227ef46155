package layout

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrTerminalUnavailable is reported when the configured terminal host binary
// cannot be found; the caller is expected to fall back to independent windows.
var ErrTerminalUnavailable = errors.New("terminal host unavailable")

// PaneSpec is one declared pane in the development window: a title, a
// cosmetic color, a working directory, and the command the pane runs.
// NewTab opens the pane as its own tab instead of splitting the current one.
type PaneSpec struct {
	Title   string
	Color   string
	WorkDir string
	Command string
	NewTab  bool
}

// Directive is a single composed command line a terminal host can execute.
type Directive struct {
	Argv []string
}

func (d Directive) String() string { return shellquote.Join(d.Argv...) }

// Composer builds terminal-host directives in the Windows Terminal CLI
// dialect (new-tab / split-pane subcommands joined by ";"), which wezterm's
// wt-compatible shim also accepts. Declaration order is passed through
// unchanged; the host decides actual materialization order.
type Composer struct {
	Terminal string // host binary, e.g. "wt"
}

func NewComposer(terminal string) *Composer {
	if terminal == "" {
		terminal = "wt"
	}
	return &Composer{Terminal: terminal}
}

// Available reports whether the terminal host binary can be resolved.
func (c *Composer) Available() bool {
	_, err := exec.LookPath(c.Terminal)
	return err == nil
}

// Compose produces one directive opening a window with the given panes in
// declaration order. It returns ErrTerminalUnavailable when the host binary
// is missing so the caller can take the fallback path instead.
func (c *Composer) Compose(panes []PaneSpec) (Directive, error) {
	if len(panes) == 0 {
		return Directive{}, errors.New("no panes declared")
	}
	if !c.Available() {
		return Directive{}, fmt.Errorf("%w: %s", ErrTerminalUnavailable, c.Terminal)
	}
	argv := []string{c.Terminal, "-w", "0"}
	for i, p := range panes {
		if i > 0 {
			argv = append(argv, ";")
		}
		sub := "split-pane"
		if i == 0 || p.NewTab {
			sub = "new-tab"
		}
		argv = append(argv, sub, "--title", p.Title)
		if p.Color != "" && sub == "new-tab" {
			argv = append(argv, "--tabColor", p.Color)
		}
		if p.WorkDir != "" {
			argv = append(argv, "-d", p.WorkDir)
		}
		if p.Command != "" {
			cmdArgv, err := shellquote.Split(p.Command)
			if err != nil {
				return Directive{}, fmt.Errorf("pane %q: %w", p.Title, err)
			}
			argv = append(argv, cmdArgv...)
		}
	}
	return Directive{Argv: argv}, nil
}

// FallbackDirectives returns one independent directive per pane for when the
// terminal host is unavailable: each pane's command is launched on its own,
// no pane lost, declaration order preserved.
func FallbackDirectives(panes []PaneSpec) ([]Directive, error) {
	out := make([]Directive, 0, len(panes))
	for _, p := range panes {
		if strings.TrimSpace(p.Command) == "" {
			continue
		}
		argv, err := shellquote.Split(p.Command)
		if err != nil {
			return nil, fmt.Errorf("pane %q: %w", p.Title, err)
		}
		out = append(out, Directive{Argv: argv})
	}
	return out, nil
}
