package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launchpad.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := buildRoot()
	root.SetArgs(args)
	return root.Execute()
}

func TestRootHasSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{"up": false, "status": false, "watch": false, "layout": false, "run": false, "serve": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %s", name)
		}
	}
}

func TestUpStartsMissingService(t *testing.T) {
	requireUnix(t)
	marker := filepath.Join(t.TempDir(), "marker")
	cfg := writeConfig(t, `
[[processes]]
name = "svc"
command = "sh -c 'echo up >> `+marker+`'"
ready_timeout = "5s"
ready_interval = "50ms"
[[processes.detectors]]
type = "command"
command = "test -f `+marker+`"
`)

	if err := execute(t, "up", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("service was not started")
	}
	b, _ := os.ReadFile(marker)
	if string(b) != "up\n" {
		t.Fatalf("unexpected marker content: %q", b)
	}

	// second run detects it and does not spawn again
	if err := execute(t, "up", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	b, _ = os.ReadFile(marker)
	if string(b) != "up\n" {
		t.Fatalf("service spawned twice: %q", b)
	}
}

func TestUpFailsOnMissingWorkDir(t *testing.T) {
	requireUnix(t)
	cfg := writeConfig(t, `
[[processes]]
name = "svc"
command = "true"
workdir = "`+filepath.Join(t.TempDir(), "does-not-exist")+`"
[[processes.detectors]]
type = "command"
command = "true"
`)
	if err := execute(t, "up", "--config", cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStatusCommand(t *testing.T) {
	requireUnix(t)
	cfg := writeConfig(t, `
[[processes]]
name = "svc"
command = "true"
[[processes.detectors]]
type = "command"
command = "true"
`)
	if err := execute(t, "status", "--config", cfg); err != nil {
		t.Fatal(err)
	}
}

func TestRunCommand(t *testing.T) {
	requireUnix(t)
	marker := filepath.Join(t.TempDir(), "ran")
	cfg := writeConfig(t, `
[[commands]]
trigger = "touchit"
argv = ["touch", "`+marker+`"]
`)
	if err := execute(t, "run", "touchit", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("trigger never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := execute(t, "run", "ghost", "--config", cfg); err == nil {
		t.Fatal("unknown trigger should error")
	}
}

func TestLayoutCommandFallsBack(t *testing.T) {
	requireUnix(t)
	cfg := writeConfig(t, `
[layout]
terminal = "__launchpad_no_such_terminal__"
[[layout.panes]]
title = "editor"
command = "vi notes.txt"
`)
	if err := execute(t, "layout", "--config", cfg); err != nil {
		t.Fatal(err)
	}
}

func TestLayoutCommandWritesScript(t *testing.T) {
	requireUnix(t)
	script := filepath.Join(t.TempDir(), "layout.sh")
	// "sh" stands in for a terminal host that is present on PATH
	cfg := writeConfig(t, `
[layout]
terminal = "sh"
[[layout.panes]]
title = "editor"
command = "vi notes.txt"
`)
	if err := execute(t, "layout", "--config", cfg, "--script", script); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(script)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm()&0o100 == 0 {
		t.Fatalf("script not executable: %v", fi.Mode())
	}
}
