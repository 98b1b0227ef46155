package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minseok-c/launchpad"
	"github.com/minseok-c/launchpad/internal/config"
	"github.com/minseok-c/launchpad/internal/launcher"
	"github.com/minseok-c/launchpad/internal/layout"
	"github.com/minseok-c/launchpad/internal/logger"
	"github.com/minseok-c/launchpad/internal/monitor"
	"github.com/minseok-c/launchpad/internal/process"
)

type command struct {
	flags *GlobalFlags
}

// load parses the config, validates working directories up front (fatal), and
// builds the facade with the global environment applied.
func (c command) load() (*launchpad.Launcher, *config.Config, error) {
	cfg, err := config.LoadConfig(c.flags.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if err := launcher.ValidateAll(cfg.Specs); err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel)))
	l := launchpad.New()
	l.SetGlobalEnv(cfg.GlobalEnv)
	return l, cfg, nil
}

// Up resolves prerequisites in declaration order, then opens the pane layout
// for interactive services. Background specs are started directly; pane specs
// ride in the terminal host.
func (c command) Up(ctx context.Context, f UpFlags) error {
	l, cfg, err := c.load()
	if err != nil {
		return err
	}

	background := make([]launchpad.Spec, 0, len(cfg.Specs))
	for _, s := range cfg.Specs {
		if !s.Interactive {
			background = append(background, s)
		}
	}
	for _, out := range l.EnsureAll(ctx, background) {
		printOutcome(out)
	}

	if !f.NoLayout && len(cfg.Panes) > 0 {
		if err := openLayout(cfg); err != nil {
			return err
		}
	}

	if f.Watch {
		return c.watchLoop(ctx, l, cfg, 0)
	}
	return nil
}

func printOutcome(out launchpad.Outcome) {
	switch out.State {
	case launcher.StateAlreadyRunning:
		fmt.Printf("  = %-20s already running (%s)\n", out.Name, out.DetectedBy)
	case launcher.StateStarted:
		ready := ""
		if !out.Ready {
			ready = "  [not ready within timeout]"
		}
		fmt.Printf("  + %-20s started (pid %d)%s\n", out.Name, out.PID, ready)
	default:
		fmt.Printf("  ! %-20s start failed: %v\n", out.Name, out.Err)
	}
}

// openLayout composes one terminal-host directive and executes it. When the
// host binary is missing every pane command is launched on its own instead,
// so no declared pane is lost.
func openLayout(cfg *config.Config) error {
	directive, err := launchpad.ComposeLayout(cfg.Layout.Terminal, cfg.Panes)
	if errors.Is(err, launchpad.ErrTerminalUnavailable) {
		slog.Warn("terminal host unavailable, launching panes independently", "terminal", cfg.Layout.Terminal)
		ds, ferr := launchpad.FallbackLayout(cfg.Panes)
		if ferr != nil {
			return ferr
		}
		for i, d := range ds {
			if _, serr := process.SpawnArgv(d.Argv, cfg.Panes[i].WorkDir); serr != nil {
				slog.Error("pane launch failed", "title", cfg.Panes[i].Title, "error", serr)
			}
		}
		return nil
	}
	if err != nil {
		return err
	}
	if cfg.Layout.Script != "" {
		if werr := layout.WriteScript(cfg.Layout.Script, directive); werr != nil {
			return werr
		}
	}
	if _, err := process.SpawnArgv(directive.Argv, ""); err != nil {
		return fmt.Errorf("terminal layout: %w", err)
	}
	return nil
}

// Status prints a single snapshot and exits.
func (c command) Status() error {
	l, cfg, err := c.load()
	if err != nil {
		return err
	}
	monitor.Render(os.Stdout, l.Status(cfg.Specs))
	return nil
}

// Watch redraws the status view until interrupted. Interruption is the normal
// way to leave the view, so it exits zero.
func (c command) Watch(ctx context.Context, f WatchFlags) error {
	l, cfg, err := c.load()
	if err != nil {
		return err
	}
	return c.watchLoop(ctx, l, cfg, f.Interval)
}

func (c command) watchLoop(ctx context.Context, l *launchpad.Launcher, cfg *config.Config, interval time.Duration) error {
	if interval <= 0 {
		interval = cfg.Monitor.Interval
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return l.Watch(ctx, cfg.Specs, interval, os.Stdout)
}

// Layout prints the composed directive without executing it.
func (c command) Layout(f LayoutFlags) error {
	_, cfg, err := c.load()
	if err != nil {
		return err
	}
	if len(cfg.Panes) == 0 {
		return fmt.Errorf("no layout panes declared in %s", c.flags.ConfigPath)
	}
	directive, err := launchpad.ComposeLayout(cfg.Layout.Terminal, cfg.Panes)
	if errors.Is(err, launchpad.ErrTerminalUnavailable) {
		ds, ferr := launchpad.FallbackLayout(cfg.Panes)
		if ferr != nil {
			return ferr
		}
		fmt.Printf("# %s not found; fallback directives:\n", cfg.Layout.Terminal)
		for _, d := range ds {
			fmt.Println(d.String())
		}
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(directive.String())
	if f.Script != "" {
		return layout.WriteScript(f.Script, directive)
	}
	return nil
}

// ListCommands prints the trigger table in declaration order.
func (c command) ListCommands() error {
	_, cfg, err := c.load()
	if err != nil {
		return err
	}
	for _, e := range cfg.Commands.List() {
		desc := e.Description
		if desc == "" {
			desc = layout.Directive{Argv: e.Argv}.String()
		}
		fmt.Printf("  %-16s %-10s %s\n", e.Trigger, e.Group, desc)
	}
	return nil
}

// Run fires one trigger command and returns immediately.
func (c command) Run(ctx context.Context, trigger string) error {
	_, cfg, err := c.load()
	if err != nil {
		return err
	}
	pid, err := cfg.Commands.Run(ctx, trigger)
	if err != nil {
		return err
	}
	fmt.Printf("%s: pid %d\n", trigger, pid)
	return nil
}

// Serve exposes the HTTP API until interrupted, optionally with a separate
// Prometheus endpoint.
func (c command) Serve(ctx context.Context, f ServeFlags) error {
	l, cfg, err := c.load()
	if err != nil {
		return err
	}

	listen := f.Listen
	basePath := f.BasePath
	if cfg.Server != nil {
		if listen == "" {
			listen = cfg.Server.Listen
		}
		if basePath == "" {
			basePath = cfg.Server.BasePath
		}
	}
	if listen == "" {
		listen = ":8080"
	}

	metricsListen := f.MetricsListen
	if metricsListen == "" && cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsListen = cfg.Metrics.Listen
	}
	if metricsListen != "" {
		if err := launchpad.RegisterMetricsDefault(); err != nil {
			return err
		}
		go func() {
			if err := launchpad.ServeMetrics(metricsListen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	srv, err := launchpad.NewHTTPServer(listen, basePath, l, cfg.Specs, cfg.Commands)
	if err != nil {
		return err
	}
	slog.Info("serving", "addr", listen, "base_path", basePath)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
