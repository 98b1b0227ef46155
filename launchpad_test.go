package launchpad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/minseok-c/launchpad/internal/detector"
	"github.com/minseok-c/launchpad/internal/launcher"
	"github.com/minseok-c/launchpad/internal/monitor"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("file never appeared: %s", path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFacadeEnsureRunningAndStatus(t *testing.T) {
	requireUnix(t)
	marker := filepath.Join(t.TempDir(), "marker")
	spec := Spec{
		Name:    "svc",
		Command: "sh -c 'echo up >> " + marker + "'",
		Detectors: []detector.Detector{
			detector.CommandDetector{Command: "test -f " + marker},
		},
	}

	l := New()
	out := l.EnsureRunning(context.Background(), &spec)
	if out.State != launcher.StateStarted {
		t.Fatalf("first: %+v", out)
	}
	waitForFile(t, marker)

	out = l.EnsureRunning(context.Background(), &spec)
	if out.State != launcher.StateAlreadyRunning {
		t.Fatalf("second: %+v", out)
	}

	snap := l.Status([]Spec{spec})
	if len(snap.Entries) != 1 || snap.Entries[0].State != monitor.StateRunning {
		t.Fatalf("status: %+v", snap)
	}
}

func TestFacadeGlobalEnvReachesChild(t *testing.T) {
	requireUnix(t)
	out := filepath.Join(t.TempDir(), "env.txt")
	spec := Spec{
		Name:    "envsvc",
		Command: "sh -c 'echo $LAUNCHPAD_TOKEN >> " + out + "'",
		Detectors: []detector.Detector{
			detector.CommandDetector{Command: "test -f " + out},
		},
	}

	l := New()
	l.SetGlobalEnv([]string{"LAUNCHPAD_TOKEN=sesame"})
	if o := l.EnsureRunning(context.Background(), &spec); o.State != launcher.StateStarted {
		t.Fatalf("outcome: %+v", o)
	}
	waitForFile(t, out)
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(b)) != "sesame" {
		t.Fatalf("env not propagated: %q", b)
	}
}

func TestComposeLayoutFallback(t *testing.T) {
	panes := []PaneSpec{
		{Title: "a", Command: "run-a"},
		{Title: "b", Command: "run-b"},
	}
	_, err := ComposeLayout("__launchpad_no_such_terminal__", panes)
	if !errors.Is(err, ErrTerminalUnavailable) {
		t.Fatalf("err: %v", err)
	}
	ds, err := FallbackLayout(panes)
	if err != nil || len(ds) != 2 {
		t.Fatalf("fallback: %v %v", ds, err)
	}
}

func TestFacadeValidateRejectsMissingWorkDir(t *testing.T) {
	spec := Spec{
		Name:      "bad",
		Command:   "true",
		WorkDir:   filepath.Join(t.TempDir(), "does-not-exist"),
		Detectors: []detector.Detector{detector.CommandDetector{Command: "true"}},
	}
	if err := New().Validate([]Spec{spec}); !errors.Is(err, ErrInvalidWorkingDirectory) {
		t.Fatalf("err: %v", err)
	}
}
