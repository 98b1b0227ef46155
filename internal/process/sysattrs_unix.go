//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr detaches the child on Unix-like systems. Launched
// services must survive launcher exit, so start them in a new session
// (setsid), free of our controlling terminal and signal group.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
