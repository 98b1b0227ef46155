package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/minseok-c/launchpad/internal/commands"
	"github.com/minseok-c/launchpad/internal/detector"
	"github.com/minseok-c/launchpad/internal/layout"
	"github.com/minseok-c/launchpad/internal/logger"
	"github.com/minseok-c/launchpad/internal/process"
)

// FileConfig represents the top-level TOML structure.
type FileConfig struct {
	Env       []string         `toml:"env" mapstructure:"env"`
	EnvFiles  []string         `toml:"env_files" mapstructure:"env_files"`
	UseOSEnv  bool             `toml:"use_os_env" mapstructure:"use_os_env"`
	Log       *LogConfig       `toml:"log" mapstructure:"log"`
	Monitor   *MonitorConfig   `toml:"monitor" mapstructure:"monitor"`
	Layout    *LayoutConfig    `toml:"layout" mapstructure:"layout"`
	Server    *ServerConfig    `toml:"server" mapstructure:"server"`
	Metrics   *MetricsConfig   `toml:"metrics" mapstructure:"metrics"`
	Processes []ProcConfig     `toml:"processes" mapstructure:"processes"`
	Commands  []commands.Entry `toml:"commands" mapstructure:"commands"`
}

type LogConfig struct {
	Dir        string `toml:"dir" mapstructure:"dir"`
	Stdout     string `toml:"stdout" mapstructure:"stdout"`
	Stderr     string `toml:"stderr" mapstructure:"stderr"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
	Level      string `toml:"level" mapstructure:"level"`
}

type MonitorConfig struct {
	Interval time.Duration `toml:"interval" mapstructure:"interval"`
}

type LayoutConfig struct {
	Terminal string       `toml:"terminal" mapstructure:"terminal"`
	Script   string       `toml:"script" mapstructure:"script"`
	Panes    []PaneConfig `toml:"panes" mapstructure:"panes"`
}

// PaneConfig either references a declared process by name or describes an
// inline pane (editor, scratch shell) that is not a managed service.
type PaneConfig struct {
	Process string `toml:"process" mapstructure:"process"`
	Title   string `toml:"title" mapstructure:"title"`
	Color   string `toml:"color" mapstructure:"color"`
	WorkDir string `toml:"workdir" mapstructure:"workdir"`
	Command string `toml:"command" mapstructure:"command"`
	NewTab  bool   `toml:"new_tab" mapstructure:"new_tab"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Listen  string `toml:"listen" mapstructure:"listen"`
}

type ProcConfig struct {
	Name          string                   `toml:"name" mapstructure:"name"`
	Command       string                   `toml:"command" mapstructure:"command"`
	WorkDir       string                   `toml:"workdir" mapstructure:"workdir"`
	Env           []string                 `toml:"env" mapstructure:"env"`
	PaneTitle     string                   `toml:"pane_title" mapstructure:"pane_title"`
	Color         string                   `toml:"color" mapstructure:"color"`
	Interactive   bool                     `toml:"interactive" mapstructure:"interactive"`
	ReadyTimeout  time.Duration            `toml:"ready_timeout" mapstructure:"ready_timeout"`
	ReadyInterval time.Duration            `toml:"ready_interval" mapstructure:"ready_interval"`
	Detectors     []process.DetectorConfig `toml:"detectors" mapstructure:"detectors"`
	Log           *LogConfig               `toml:"log" mapstructure:"log"`
}

// Config is the fully resolved configuration: specs with constructed
// detectors, the pane layout in declaration order, and the validated
// command table.
type Config struct {
	GlobalEnv []string
	Specs     []process.Spec
	Panes     []layout.PaneSpec
	Commands  *commands.Table
	Monitor   MonitorConfig
	Layout    LayoutConfig
	Server    *ServerConfig
	Metrics   *MetricsConfig
	LogLevel  string
}

// LoadConfig parses and validates the TOML config file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if fc.Monitor != nil {
		cfg.Monitor = *fc.Monitor
	}
	if fc.Layout != nil {
		cfg.Layout = *fc.Layout
	}
	cfg.Server = fc.Server
	cfg.Metrics = fc.Metrics
	if fc.Log != nil {
		cfg.LogLevel = fc.Log.Level
	}

	genv, err := mergeGlobalEnv(&fc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.GlobalEnv = genv

	specs, err := buildSpecs(&fc)
	if err != nil {
		return nil, err
	}
	cfg.Specs = specs

	panes, err := buildPanes(&fc, specs)
	if err != nil {
		return nil, err
	}
	cfg.Panes = panes

	table, err := commands.NewTable(fc.Commands)
	if err != nil {
		return nil, err
	}
	cfg.Commands = table
	return cfg, nil
}

// buildSpecs converts process sections to specs with constructed detectors,
// applying top-level log defaults then per-process overrides.
func buildSpecs(fc *FileConfig) ([]process.Spec, error) {
	specs := make([]process.Spec, 0, len(fc.Processes))
	seen := make(map[string]bool, len(fc.Processes))
	for _, pc := range fc.Processes {
		if strings.TrimSpace(pc.Name) == "" {
			return nil, fmt.Errorf("process requires a name")
		}
		if seen[pc.Name] {
			return nil, fmt.Errorf("duplicate process %s", pc.Name)
		}
		seen[pc.Name] = true
		if strings.TrimSpace(pc.Command) == "" {
			return nil, fmt.Errorf("process %s requires a command", pc.Name)
		}
		if len(pc.Detectors) == 0 {
			return nil, fmt.Errorf("process %s requires at least one detector", pc.Name)
		}
		dets, err := buildDetectors(pc.Name, pc.Detectors)
		if err != nil {
			return nil, err
		}
		specs = append(specs, process.Spec{
			Name:          pc.Name,
			Command:       pc.Command,
			WorkDir:       pc.WorkDir,
			Env:           pc.Env,
			PaneTitle:     pc.PaneTitle,
			Color:         pc.Color,
			Interactive:   pc.Interactive,
			ReadyTimeout:  pc.ReadyTimeout,
			ReadyInterval: pc.ReadyInterval,
			Detectors:     dets,
			Log:           mergeLog(fc.Log, pc.Log),
		})
	}
	return specs, nil
}

func buildDetectors(name string, cfgs []process.DetectorConfig) ([]detector.Detector, error) {
	dets := make([]detector.Detector, 0, len(cfgs))
	for _, d := range cfgs {
		switch d.Type {
		case "pidfile":
			if d.Path == "" {
				return nil, fmt.Errorf("detector pidfile requires path for process %s", name)
			}
			dets = append(dets, detector.PIDFileDetector{PIDFile: d.Path})
		case "pid":
			if d.PID <= 0 {
				return nil, fmt.Errorf("detector pid requires positive pid for process %s", name)
			}
			dets = append(dets, detector.PIDDetector{PID: d.PID})
		case "command":
			if d.Command == "" {
				return nil, fmt.Errorf("detector command requires command for process %s", name)
			}
			dets = append(dets, detector.CommandDetector{Command: d.Command})
		case "pname":
			if d.Name == "" {
				return nil, fmt.Errorf("detector pname requires name for process %s", name)
			}
			dets = append(dets, detector.ProcessNameDetector{Name: d.Name, MatchCmdline: d.Cmdline})
		case "http":
			if d.URL == "" {
				return nil, fmt.Errorf("detector http requires url for process %s", name)
			}
			dets = append(dets, detector.HTTPDetector{URL: d.URL})
		default:
			return nil, fmt.Errorf("unknown detector type %q for process %s", d.Type, name)
		}
	}
	return dets, nil
}

// buildPanes resolves the declared pane order. Referencing an unknown or
// non-interactive process is a config error; inline panes need a title.
func buildPanes(fc *FileConfig, specs []process.Spec) ([]layout.PaneSpec, error) {
	if fc.Layout == nil {
		return nil, nil
	}
	byName := make(map[string]*process.Spec, len(specs))
	for i := range specs {
		byName[specs[i].Name] = &specs[i]
	}
	panes := make([]layout.PaneSpec, 0, len(fc.Layout.Panes))
	for _, pc := range fc.Layout.Panes {
		if pc.Process != "" {
			s, ok := byName[pc.Process]
			if !ok {
				return nil, fmt.Errorf("layout pane references unknown process %s", pc.Process)
			}
			if !s.Interactive {
				return nil, fmt.Errorf("layout pane references non-interactive process %s", pc.Process)
			}
			panes = append(panes, layout.PaneSpec{
				Title:   s.Title(),
				Color:   s.Color,
				WorkDir: s.WorkDir,
				Command: s.Command,
				NewTab:  pc.NewTab,
			})
			continue
		}
		if strings.TrimSpace(pc.Title) == "" {
			return nil, fmt.Errorf("inline layout pane requires a title")
		}
		panes = append(panes, layout.PaneSpec{
			Title:   pc.Title,
			Color:   pc.Color,
			WorkDir: pc.WorkDir,
			Command: pc.Command,
			NewTab:  pc.NewTab,
		})
	}
	return panes, nil
}

// mergeGlobalEnv composes the launcher-wide environment overrides.
// Precedence: OS env (when use_os_env) provides base; then file vars;
// then the top-level env list overrides last.
func mergeGlobalEnv(fc *FileConfig, baseDir string) ([]string, error) {
	m := make(map[string]string)
	if fc.UseOSEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
				m[k] = v
			}
		}
	}
	for _, p := range fc.EnvFiles {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		pairs, err := loadEnvFile(p)
		if err != nil {
			return nil, err
		}
		for k, v := range pairs {
			m[k] = v
		}
	}
	for _, kv := range fc.Env {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out, nil
}

// loadEnvFile parses a simple .env file with KEY=VALUE lines (no export, no
// quotes). Lines starting with # are ignored.
func loadEnvFile(path string) (map[string]string, error) {
	clean := filepath.Clean(path)
	b, err := os.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return m, nil
}

func mergeLog(top, proc *LogConfig) logger.Config {
	var out logger.Config
	if top != nil {
		out = logger.Config{
			Dir:        top.Dir,
			StdoutPath: top.Stdout,
			StderrPath: top.Stderr,
			MaxSizeMB:  top.MaxSizeMB,
			MaxBackups: top.MaxBackups,
			MaxAgeDays: top.MaxAgeDays,
			Compress:   top.Compress,
		}
	}
	if proc != nil {
		if proc.Dir != "" {
			out.Dir = proc.Dir
		}
		if proc.Stdout != "" {
			out.StdoutPath = proc.Stdout
		}
		if proc.Stderr != "" {
			out.StderrPath = proc.Stderr
		}
		if proc.MaxSizeMB != 0 {
			out.MaxSizeMB = proc.MaxSizeMB
		}
		if proc.MaxBackups != 0 {
			out.MaxBackups = proc.MaxBackups
		}
		if proc.MaxAgeDays != 0 {
			out.MaxAgeDays = proc.MaxAgeDays
		}
		if proc.Compress {
			out.Compress = true
		}
	}
	return out
}
