package detector

import (
	"os"
	"strings"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// ProcessNameDetector scans the OS process table for a process whose
// executable name equals Name, or whose command line contains Name when
// MatchCmdline is set. The launcher's own process is skipped so a detect
// command embedded in our argv cannot match itself.
type ProcessNameDetector struct {
	Name         string
	MatchCmdline bool
}

func (d ProcessNameDetector) Alive() (bool, error) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return false, err
	}
	self := int32(os.Getpid())
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		if d.MatchCmdline {
			cmdline, err := p.Cmdline()
			if err != nil {
				continue
			}
			if strings.Contains(cmdline, d.Name) {
				return true, nil
			}
			continue
		}
		name, err := p.Name()
		if err != nil {
			continue
		}
		if name == d.Name {
			return true, nil
		}
	}
	return false, nil
}

func (d ProcessNameDetector) Describe() string { return "pname:" + d.Name }
