package process

import (
	"errors"
	"os"
	"os/exec"
)

// Configure builds and configures an *exec.Cmd for this spec using mergedEnv.
// It sets workdir, environment, stdio destinations, and detach attributes.
// Stdout/stderr go to the spec's rotating log files when configured, else to
// the null device; a launched service never shares the launcher's terminal.
func Configure(spec *Spec, mergedEnv []string) *exec.Cmd {
	cmd := spec.BuildCommand()
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	if len(mergedEnv) > 0 {
		cmd.Env = mergedEnv
	}
	configureSysProcAttr(cmd)

	if spec.Log.Dir != "" || spec.Log.StdoutPath != "" || spec.Log.StderrPath != "" {
		if spec.Log.Dir != "" {
			_ = os.MkdirAll(spec.Log.Dir, 0o750)
		}
		outW, errW, _ := spec.Log.Writers(spec.Name)
		if outW != nil {
			cmd.Stdout = outW
		} else {
			cmd.Stdout, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
		}
		if errW != nil {
			cmd.Stderr = errW
		} else {
			cmd.Stderr, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
		}
	} else {
		null, _ := os.OpenFile(os.DevNull, os.O_RDWR, 0)
		cmd.Stdout = null
		cmd.Stderr = null
	}
	return cmd
}

// Spawn starts cmd fire-and-forget and returns the child PID. A goroutine
// reaps the child if it exits while the launcher is still alive (the watch
// loop can run for a long time); the launcher never waits for readiness here
// and never stops what it starts.
func Spawn(cmd *exec.Cmd) (int, error) {
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

// SpawnSpec is the common path for launching a spec: configure then spawn.
func SpawnSpec(spec *Spec, mergedEnv []string) (int, error) {
	return Spawn(Configure(spec, mergedEnv))
}

// SpawnArgv launches a pre-resolved argv detached, with stdio on the null
// device. Used for terminal-layout directives and command-table triggers,
// which carry validated argument lists rather than shell text.
func SpawnArgv(argv []string, workDir string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty argv")
	}
	// #nosec G204
	cmd := exec.Command(argv[0], argv[1:]...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	configureSysProcAttr(cmd)
	null, _ := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	cmd.Stdout = null
	cmd.Stderr = null
	return Spawn(cmd)
}
