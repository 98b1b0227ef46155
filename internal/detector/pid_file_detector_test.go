package detector

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestPIDFileDetector(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	pidfile := filepath.Join(dir, "p.pid")
	d := PIDFileDetector{PIDFile: pidfile}

	// not exists -> false,nil
	alive, err := d.Alive()
	if err != nil || alive {
		t.Fatalf("expected false,nil for missing file, got %v %v", alive, err)
	}

	// invalid content -> error
	if err := os.WriteFile(pidfile, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	alive, err = d.Alive()
	if err == nil {
		t.Fatalf("expected error for invalid pid, got alive=%v", alive)
	}

	// valid pid but not alive (0) -> false,nil
	if err := os.WriteFile(pidfile, []byte("0"), 0o644); err != nil {
		t.Fatal(err)
	}
	alive, err = d.Alive()
	if err != nil || alive {
		t.Fatalf("expected false,nil for pid 0, got %v %v", alive, err)
	}

	// current process pid -> alive, and trailing lines are ignored
	pid := os.Getpid()
	if err := os.WriteFile(pidfile, []byte(strconv.Itoa(pid)+"\nextra\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	alive, err = d.Alive()
	if err != nil || !alive {
		t.Fatalf("expected true,nil for own pid, got %v %v", alive, err)
	}
	if d.Describe() != "pidfile:"+pidfile {
		t.Fatalf("Describe mismatch: %q", d.Describe())
	}
}

func TestPIDDetector(t *testing.T) {
	requireUnix(t)
	d := PIDDetector{PID: os.Getpid()}
	alive, err := d.Alive()
	if err != nil || !alive {
		t.Fatalf("own pid should be alive, got %v %v", alive, err)
	}
	d = PIDDetector{PID: -1}
	alive, err = d.Alive()
	if err != nil || alive {
		t.Fatalf("negative pid should be false,nil, got %v %v", alive, err)
	}
}
