package monitor

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// clearScreen fully replaces the previous tick's rendering.
const clearScreen = "\033[2J\033[H"

var (
	runningStyle = color.New(color.FgGreen, color.Bold)
	stoppedStyle = color.New(color.FgRed)
	unknownStyle = color.New(color.FgYellow)
	headerStyle  = color.New(color.FgCyan, color.Bold)
)

// render is the clear-and-redraw variant used by the watch loop.
func render(w io.Writer, s Snapshot) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprint(w, clearScreen)
	Render(w, s)
}

// Render writes one snapshot without clearing, for one-shot status output.
func Render(w io.Writer, s Snapshot) {
	if w == nil {
		return
	}
	_, _ = headerStyle.Fprintf(w, "launchpad status  %s\n", s.TakenAt.Format("15:04:05"))
	for _, e := range s.Entries {
		switch e.State {
		case StateRunning:
			_, _ = runningStyle.Fprintf(w, "  ● %-20s running", e.Name)
			if e.DetectedBy != "" {
				_, _ = fmt.Fprintf(w, "  (%s)", e.DetectedBy)
			}
			_, _ = fmt.Fprintln(w)
		case StateStopped:
			_, _ = stoppedStyle.Fprintf(w, "  ○ %-20s stopped\n", e.Name)
		default:
			_, _ = unknownStyle.Fprintf(w, "  ? %-20s unknown\n", e.Name)
		}
	}
}
