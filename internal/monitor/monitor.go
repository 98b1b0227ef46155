package monitor

import (
	"context"
	"io"
	"time"

	"github.com/minseok-c/launchpad/internal/metrics"
	"github.com/minseok-c/launchpad/internal/process"
)

// State is the observed liveness of one service at a tick.
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateUnknown State = "unknown" // the detect check itself could not run
)

// Entry is one service's row in a snapshot.
type Entry struct {
	Name       string `json:"name"`
	State      State  `json:"state"`
	DetectedBy string `json:"detected_by,omitempty"`
	Color      string `json:"-"`
}

// Snapshot is a point-in-time read of every service's liveness. It is
// rendered and discarded; nothing is persisted.
type Snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	Entries []Entry   `json:"entries"`
}

const defaultInterval = 5 * time.Second

// Monitor polls the process table on a fixed interval and renders each
// snapshot with clear-and-redraw semantics. It only reads status; it never
// starts or stops anything.
type Monitor struct {
	specs    []process.Spec
	interval time.Duration
	out      io.Writer
}

func New(specs []process.Spec, interval time.Duration, out io.Writer) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{specs: specs, interval: interval, out: out}
}

// Snapshot runs every spec's detectors once. A spec is Running on the first
// alive hit; Unknown when no detector could execute at all; Stopped otherwise.
// One failing check never aborts the tick.
func (m *Monitor) Snapshot() Snapshot {
	snap := Snapshot{TakenAt: time.Now(), Entries: make([]Entry, 0, len(m.specs))}
	for i := range m.specs {
		spec := &m.specs[i]
		e := Entry{Name: spec.Name, Color: spec.Color, State: StateUnknown}
		checked := false
		for _, d := range spec.Detectors {
			alive, err := d.Alive()
			if err != nil {
				continue
			}
			checked = true
			if alive {
				e.State = StateRunning
				e.DetectedBy = d.Describe()
				break
			}
		}
		if !checked && len(spec.Detectors) > 0 {
			metrics.IncDetectFailure(spec.Name)
		} else if e.State != StateRunning {
			e.State = StateStopped
		}
		metrics.SetProcessUp(spec.Name, e.State == StateRunning)
		snap.Entries = append(snap.Entries, e)
	}
	return snap
}

// Run renders one snapshot per elapsed interval until ctx is cancelled.
// It emits an initial snapshot immediately so the display is never blank,
// and stops within one interval of cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	render(m.out, m.Snapshot())
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			render(m.out, m.Snapshot())
		}
	}
}
