//go:build windows

package detector

import gopsproc "github.com/shirou/gopsutil/v4/process"

// pidAlive reports whether a process with the given pid exists. Windows has
// no signal 0, so consult the process table instead.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := gopsproc.PidExists(int32(pid))
	return err == nil && ok
}
