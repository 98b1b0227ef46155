package launchpad

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/minseok-c/launchpad/internal/commands"
	cfg "github.com/minseok-c/launchpad/internal/config"
	"github.com/minseok-c/launchpad/internal/env"
	"github.com/minseok-c/launchpad/internal/launcher"
	"github.com/minseok-c/launchpad/internal/layout"
	"github.com/minseok-c/launchpad/internal/metrics"
	"github.com/minseok-c/launchpad/internal/monitor"
	"github.com/minseok-c/launchpad/internal/process"
	iapi "github.com/minseok-c/launchpad/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Spec = process.Spec

type Outcome = launcher.Outcome

type Snapshot = monitor.Snapshot

type PaneSpec = layout.PaneSpec

type Directive = layout.Directive

type CommandEntry = commands.Entry

var (
	ErrInvalidWorkingDirectory = launcher.ErrInvalidWorkingDirectory
	ErrSpawnFailed             = launcher.ErrSpawnFailed
	ErrTerminalUnavailable     = layout.ErrTerminalUnavailable
)

// Launcher is a thin facade over the internal resolver, monitor and layout
// composer. It provides a stable public API for embedding.
type Launcher struct {
	inner *launcher.Launcher
	env   *env.Env
}

func New() *Launcher {
	e := env.New()
	e.FromOS()
	return &Launcher{inner: launcher.New(e, nil), env: e}
}

// SetGlobalEnv adds "K=V" overrides applied to every launched service.
func (l *Launcher) SetGlobalEnv(kvs []string) {
	for _, kv := range kvs {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			l.env.Set(k, v)
		}
	}
}

// EnsureRunning detects the service and starts it only when nothing reports alive.
func (l *Launcher) EnsureRunning(ctx context.Context, spec *Spec) Outcome {
	return l.inner.EnsureRunning(ctx, spec)
}

// EnsureAll resolves specs in declaration order, polling readiness after each start.
func (l *Launcher) EnsureAll(ctx context.Context, specs []Spec) []Outcome {
	return l.inner.EnsureAll(ctx, specs)
}

func (l *Launcher) Validate(specs []Spec) error { return launcher.ValidateAll(specs) }

// Status runs every spec's detectors once and returns the snapshot.
func (l *Launcher) Status(specs []Spec) Snapshot {
	return monitor.New(specs, 0, nil).Snapshot()
}

// Watch renders a clear-and-redraw status view to out on the given interval
// until ctx is cancelled.
func (l *Launcher) Watch(ctx context.Context, specs []Spec, interval time.Duration, out io.Writer) error {
	return monitor.New(specs, interval, out).Run(ctx)
}

// ComposeLayout builds one terminal-host directive for the declared panes.
// It returns ErrTerminalUnavailable when the host binary is missing.
func ComposeLayout(terminal string, panes []PaneSpec) (Directive, error) {
	return layout.NewComposer(terminal).Compose(panes)
}

// FallbackLayout returns one directive per pane for terminal-less operation.
func FallbackLayout(panes []PaneSpec) ([]Directive, error) {
	return layout.FallbackDirectives(panes)
}

func LoadConfig(path string) (*cfg.Config, error) {
	return cfg.LoadConfig(path)
}

// NewHTTPServer starts an HTTP server exposing the internal API using the given launcher.
func NewHTTPServer(addr, basePath string, l *Launcher, specs []Spec, table *commands.Table) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, l.inner, specs, table)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
func ServeMetrics(addr string) error {
	http.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
