package env

import (
	"slices"
	"testing"
)

func TestMergePrecedence(t *testing.T) {
	e := New()
	// seed cached base directly instead of depending on the real OS env
	e.env = Var{"HOME": "/home/u", "SHARED": "os"}
	e.Set("SHARED", "global")
	e.Set("EXTRA", "1")

	out := e.Merge([]string{"SHARED=proc", "NEW=y", "=skipme"})
	if !slices.Contains(out, "SHARED=proc") {
		t.Fatalf("per-proc should win: %v", out)
	}
	if !slices.Contains(out, "EXTRA=1") || !slices.Contains(out, "HOME=/home/u") || !slices.Contains(out, "NEW=y") {
		t.Fatalf("missing entries: %v", out)
	}
	for _, kv := range out {
		if kv == "=skipme" {
			t.Fatalf("malformed entry kept: %v", out)
		}
	}
}

func TestMergeExpansion(t *testing.T) {
	e := New()
	e.env = Var{"ROOT": "/srv"}
	out := e.Merge([]string{"LOGDIR=${ROOT}/logs"})
	if !slices.Contains(out, "LOGDIR=/srv/logs") {
		t.Fatalf("expansion failed: %v", out)
	}
}

func TestMergeUsesOSWhenNoCache(t *testing.T) {
	t.Setenv("LAUNCHPAD_ENV_TEST", "42")
	e := New()
	out := e.Merge(nil)
	if !slices.Contains(out, "LAUNCHPAD_ENV_TEST=42") {
		t.Fatalf("OS env not picked up: len=%d", len(out))
	}
}
