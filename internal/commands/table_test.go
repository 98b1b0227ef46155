package commands

import (
	"context"
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

func TestNewTableValidation(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{"ok", []Entry{{Trigger: "ping", Argv: []string{"ping", "-c", "4", "8.8.8.8"}, Group: "network"}}, false},
		{"empty trigger", []Entry{{Trigger: " ", Argv: []string{"true"}}}, true},
		{"empty argv", []Entry{{Trigger: "x", Argv: nil}}, true},
		{"blank argv0", []Entry{{Trigger: "x", Argv: []string{" "}}}, true},
		{"duplicate", []Entry{
			{Trigger: "x", Argv: []string{"true"}},
			{Trigger: "x", Argv: []string{"false"}},
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.entries)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestListKeepsDeclarationOrder(t *testing.T) {
	tb, err := NewTable([]Entry{
		{Trigger: "b", Argv: []string{"true"}},
		{Trigger: "a", Argv: []string{"true"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := tb.List()
	if got[0].Trigger != "b" || got[1].Trigger != "a" {
		t.Fatalf("order: %v", got)
	}
}

func TestRunSpawnsAndRejectsUnknown(t *testing.T) {
	requireUnix(t)
	marker := filepath.Join(t.TempDir(), "ran")
	tb, err := NewTable([]Entry{{Trigger: "touchit", Argv: []string{"touch", marker}}})
	if err != nil {
		t.Fatal(err)
	}

	pid, err := tb.Run(context.Background(), "touchit")
	if err != nil || pid <= 0 {
		t.Fatalf("run: pid=%d err=%v", pid, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("trigger command never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := tb.Run(context.Background(), "nope"); err == nil {
		t.Fatal("unknown trigger should error")
	}
}
