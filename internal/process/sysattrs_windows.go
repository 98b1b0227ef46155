//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// Windows creation flags
const (
	createNewProcessGroup = 0x00000200
	detachedProcess       = 0x00000008
)

// configureSysProcAttr detaches the child on Windows: a new process group
// plus DETACHED_PROCESS so the child does not inherit our console and
// survives launcher exit.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: uint32(createNewProcessGroup | detachedProcess),
	}
}
