package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by all subcommands.
type GlobalFlags struct {
	ConfigPath string
}

// UpFlags holds flags for the up subcommand.
type UpFlags struct {
	Watch    bool
	NoLayout bool
}

// WatchFlags holds flags for the watch subcommand.
type WatchFlags struct {
	Interval time.Duration
}

// LayoutFlags holds flags for the layout subcommand.
type LayoutFlags struct {
	Script string
}

// ServeFlags holds flags for the serve subcommand.
type ServeFlags struct {
	Listen        string
	BasePath      string
	MetricsListen string
}

func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	upFlags := &UpFlags{}
	watchFlags := &WatchFlags{}
	layoutFlags := &LayoutFlags{}
	serveFlags := &ServeFlags{}

	launchpadCommand := command{flags: globalFlags}

	root := createRootCommand(globalFlags)
	// bare invocation behaves like "up"
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return launchpadCommand.Up(cmd.Context(), *upFlags)
	}
	root.AddCommand(
		createUpCommand(launchpadCommand, upFlags),
		createStatusCommand(launchpadCommand),
		createWatchCommand(launchpadCommand, watchFlags),
		createLayoutCommand(launchpadCommand, layoutFlags),
		createRunCommand(launchpadCommand),
		createServeCommand(launchpadCommand, serveFlags),
	)
	return root
}

func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "launchpad",
		Short: "Development environment launcher",
		Long: `Launchpad starts the external services a development session depends on,
composes a terminal pane layout for the interactive ones, and keeps a live
status view of everything it knows about. It never stops a service: launched
processes are expected to outlive the launcher.

Examples:
  launchpad up                       # detect, start what is missing, open the layout
  launchpad up --watch               # same, then keep a live status view
  launchpad status                   # one status snapshot
  launchpad run ping                 # fire a trigger command from the table
  launchpad serve                    # expose status/launch/run over HTTP`,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "launchpad.toml", "path to TOML config file")
	return root
}

func createUpCommand(c command, flags *UpFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start missing services and open the pane layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Up(cmd.Context(), *flags)
		},
	}
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "keep a live status view after starting")
	cmd.Flags().BoolVar(&flags.NoLayout, "no-layout", false, "skip composing the terminal layout")
	return cmd
}

func createStatusCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print one status snapshot of all declared services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Status()
		},
	}
}

func createWatchCommand(c command, flags *WatchFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live status view, redrawn on an interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Watch(cmd.Context(), *flags)
		},
	}
	cmd.Flags().DurationVar(&flags.Interval, "interval", 0, "poll interval (default from config, else 5s)")
	return cmd
}

func createLayoutCommand(c command, flags *LayoutFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the composed terminal directive without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Layout(*flags)
		},
	}
	cmd.Flags().StringVar(&flags.Script, "script", "", "also write the directive as a shell script")
	return cmd
}

func createRunCommand(c command) *cobra.Command {
	return &cobra.Command{
		Use:   "run [trigger]",
		Short: "Fire a trigger command from the table; no args lists triggers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.ListCommands()
			}
			return c.Run(cmd.Context(), args[0])
		},
	}
}

func createServeCommand(c command, flags *ServeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose status, launch and run endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Serve(cmd.Context(), *flags)
		},
	}
	cmd.Flags().StringVar(&flags.Listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&flags.BasePath, "base-path", "", "API base path (overrides config)")
	cmd.Flags().StringVar(&flags.MetricsListen, "metrics-listen", "", "Prometheus /metrics address (overrides config)")
	return cmd
}
