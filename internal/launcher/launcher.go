package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/minseok-c/launchpad/internal/detector"
	"github.com/minseok-c/launchpad/internal/env"
	"github.com/minseok-c/launchpad/internal/metrics"
	"github.com/minseok-c/launchpad/internal/process"
)

// Error kinds surfaced in Outcome.Err. Only an invalid working directory at
// config validation is fatal to a run; everything else is local to one service.
var (
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")
	ErrSpawnFailed             = errors.New("spawn failed")
	ErrEmptySpec               = errors.New("spec requires a command and at least one detector")
)

// State is the result class of one EnsureRunning call.
type State string

const (
	StateAlreadyRunning State = "already-running"
	StateStarted        State = "started"
	StateStartFailed    State = "start-failed"
)

// Outcome reports what EnsureRunning did for one service.
type Outcome struct {
	Name       string
	State      State
	DetectedBy string // detection method that reported alive, when AlreadyRunning
	PID        int    // child pid, when Started
	Ready      bool   // readiness probe succeeded within the bounded timeout
	Err        error  // non-nil only for StartFailed
}

const (
	defaultReadyTimeout  = 15 * time.Second
	defaultReadyInterval = 300 * time.Millisecond
)

// Launcher resolves prerequisites: detect first, start what is missing,
// never stop anything. One spawn at most per spec per run; the race between
// detect and spawn is accepted and not guarded.
type Launcher struct {
	env    *env.Env
	logger *slog.Logger
}

func New(e *env.Env, lg *slog.Logger) *Launcher {
	if e == nil {
		e = env.New()
	}
	if lg == nil {
		lg = slog.Default()
	}
	return &Launcher{env: e, logger: lg}
}

// EnsureRunning executes the spec's detectors; if any reports alive it
// returns AlreadyRunning with no side effects. Otherwise it spawns the
// launch command fire-and-forget and returns Started without waiting for
// the service to become ready.
func (l *Launcher) EnsureRunning(ctx context.Context, spec *process.Spec) Outcome {
	if err := validate(spec); err != nil {
		out := Outcome{Name: spec.Name, State: StateStartFailed, Err: err}
		metrics.IncLaunch(spec.Name, string(out.State))
		return out
	}

	if alive, by := detectAny(spec.Detectors); alive {
		l.logger.Info("already running", "name", spec.Name, "detected_by", by)
		metrics.IncLaunch(spec.Name, string(StateAlreadyRunning))
		return Outcome{Name: spec.Name, State: StateAlreadyRunning, DetectedBy: by}
	}

	pid, err := process.SpawnSpec(spec, l.env.Merge(spec.Env))
	if err != nil {
		l.logger.Error("launch failed", "name", spec.Name, "error", err)
		metrics.IncLaunch(spec.Name, string(StateStartFailed))
		return Outcome{Name: spec.Name, State: StateStartFailed, Err: fmt.Errorf("%w: %v", ErrSpawnFailed, err)}
	}
	l.logger.Info("started", "name", spec.Name, "pid", pid)
	metrics.IncLaunch(spec.Name, string(StateStarted))
	return Outcome{Name: spec.Name, State: StateStarted, PID: pid}
}

// EnsureAll resolves every spec in order. A StartFailed outcome is reported
// and the sequence continues; after each successful start the launcher polls
// the detectors for readiness up to the spec's bounded timeout before moving
// on, instead of sleeping a fixed delay.
func (l *Launcher) EnsureAll(ctx context.Context, specs []process.Spec) []Outcome {
	outs := make([]Outcome, 0, len(specs))
	for i := range specs {
		spec := &specs[i]
		out := l.EnsureRunning(ctx, spec)
		if out.State == StateStarted {
			began := time.Now()
			out.Ready = WaitReady(ctx, spec.Detectors, readyTimeout(spec), readyInterval(spec))
			metrics.ObserveReadyWait(spec.Name, time.Since(began).Seconds())
			if !out.Ready {
				l.logger.Warn("not ready within timeout", "name", spec.Name, "timeout", readyTimeout(spec))
			}
		}
		outs = append(outs, out)
		if ctx.Err() != nil {
			break
		}
	}
	return outs
}

// WaitReady polls the detectors until one reports alive, the timeout lapses,
// or ctx is cancelled. Detect errors during the probe count as "not yet".
func WaitReady(ctx context.Context, dets []detector.Detector, timeout, interval time.Duration) bool {
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	if interval <= 0 {
		interval = defaultReadyInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		if alive, _ := detectAny(dets); alive {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
}

// detectAny returns true with the detector description on the first alive hit.
// Detector exec errors are treated as "not detected" here; the monitor is the
// component that distinguishes Unknown.
func detectAny(dets []detector.Detector) (bool, string) {
	for _, d := range dets {
		if ok, _ := d.Alive(); ok {
			return true, d.Describe()
		}
	}
	return false, ""
}

func validate(spec *process.Spec) error {
	if strings.TrimSpace(spec.Command) == "" || len(spec.Detectors) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySpec, spec.Name)
	}
	if spec.WorkDir != "" {
		fi, err := os.Stat(spec.WorkDir)
		if err != nil || !fi.IsDir() {
			return fmt.Errorf("%w: %s: %s", ErrInvalidWorkingDirectory, spec.Name, spec.WorkDir)
		}
	}
	return nil
}

// ValidateAll checks every spec's working directory up front. A missing
// directory is fatal at start because nothing downstream can be relative to it.
func ValidateAll(specs []process.Spec) error {
	for i := range specs {
		if err := validate(&specs[i]); err != nil {
			return err
		}
	}
	return nil
}

func readyTimeout(s *process.Spec) time.Duration {
	if s.ReadyTimeout > 0 {
		return s.ReadyTimeout
	}
	return defaultReadyTimeout
}

func readyInterval(s *process.Spec) time.Duration {
	if s.ReadyInterval > 0 {
		return s.ReadyInterval
	}
	return defaultReadyInterval
}
