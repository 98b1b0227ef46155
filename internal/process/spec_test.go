package process

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func TestBuildCommandVariants(t *testing.T) {
	requireUnix(t)
	cases := []struct {
		name    string
		command string
		want    []string
	}{
		{"empty", "", []string{"/bin/true"}},
		{"plain argv", "ollama serve", []string{"ollama", "serve"}},
		{"metachars", "echo a | cat", []string{"/bin/sh", "-c", "echo a | cat"}},
		{"explicit shell", "sh -c 'sleep 1 && echo ok'", []string{"/bin/sh", "-c", "sleep 1 && echo ok"}},
		{"explicit abs shell", `/bin/sh -c "echo hi"`, []string{"/bin/sh", "-c", "echo hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Spec{Name: "x", Command: tc.command}
			cmd := s.BuildCommand()
			if len(cmd.Args) != len(tc.want) {
				t.Fatalf("args %#v, want %#v", cmd.Args, tc.want)
			}
			for i := range tc.want {
				if cmd.Args[i] != tc.want[i] {
					t.Fatalf("arg[%d]=%q, want %q (%#v)", i, cmd.Args[i], tc.want[i], cmd.Args)
				}
			}
		})
	}
}

func TestTitleFallback(t *testing.T) {
	s := Spec{Name: "voice"}
	if s.Title() != "voice" {
		t.Fatalf("Title fallback: %q", s.Title())
	}
	s.PaneTitle = "Nina Voice"
	if s.Title() != "Nina Voice" {
		t.Fatalf("Title override: %q", s.Title())
	}
}

func TestConfigureSetsWorkdirEnvAndStdio(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	s := Spec{Name: "svc", Command: "true", WorkDir: dir}
	cmd := Configure(&s, []string{"A=1"})
	if cmd.Dir != dir {
		t.Fatalf("workdir: %q", cmd.Dir)
	}
	if len(cmd.Env) != 1 || cmd.Env[0] != "A=1" {
		t.Fatalf("env: %#v", cmd.Env)
	}
	if cmd.Stdout == nil || cmd.Stderr == nil {
		t.Fatal("stdio should default to the null device, not nil")
	}
	if cmd.SysProcAttr == nil {
		t.Fatal("detach attributes not set")
	}
}

func TestSpawnFireAndForget(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "spawned")
	s := Spec{Name: "writer", Command: "sh -c 'echo up > " + marker + "'"}
	pid, err := SpawnSpec(&s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pid <= 0 {
		t.Fatalf("pid: %d", pid)
	}
	waitForFile(t, marker, 2*time.Second)
}

func TestSpawnMissingBinary(t *testing.T) {
	requireUnix(t)
	s := Spec{Name: "nope", Command: "__launchpad_no_such_binary__"}
	if _, err := SpawnSpec(&s, nil); err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}

func waitForFile(t *testing.T, path string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b, err := os.ReadFile(path); err == nil && strings.TrimSpace(string(b)) != "" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s not written within %v", path, timeout)
}
