package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/minseok-c/launchpad/internal/process"
)

// Entry is one trigger-word command: a symbolic name mapped to a validated
// argument list. Argv is resolved at load time and never re-parsed as shell
// text, so trigger commands carry no shell-injection semantics.
type Entry struct {
	Trigger     string   `json:"trigger" mapstructure:"trigger"`
	Argv        []string `json:"argv" mapstructure:"argv"`
	WorkDir     string   `json:"workdir,omitempty" mapstructure:"workdir"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
	Group       string   `json:"group,omitempty" mapstructure:"group"` // network, system, custom
}

// Table is the flat trigger->command mapping, loaded once at start and never
// mutated at runtime.
type Table struct {
	order   []string
	entries map[string]Entry
}

// NewTable validates the entries and builds the lookup table. Triggers must
// be unique and every entry needs a non-empty argv.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		trigger := strings.TrimSpace(e.Trigger)
		if trigger == "" {
			return nil, fmt.Errorf("command entry with empty trigger")
		}
		if len(e.Argv) == 0 || strings.TrimSpace(e.Argv[0]) == "" {
			return nil, fmt.Errorf("command %q requires a non-empty argv", trigger)
		}
		if _, dup := t.entries[trigger]; dup {
			return nil, fmt.Errorf("duplicate command trigger %q", trigger)
		}
		e.Trigger = trigger
		t.entries[trigger] = e
		t.order = append(t.order, trigger)
	}
	return t, nil
}

// Lookup returns the entry for a trigger.
func (t *Table) Lookup(trigger string) (Entry, bool) {
	e, ok := t.entries[trigger]
	return e, ok
}

// List returns all entries in declaration order.
func (t *Table) List() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.entries[k])
	}
	return out
}

// Run spawns the trigger's command fire-and-forget through the same spawn
// path as managed services and returns the child PID.
func (t *Table) Run(ctx context.Context, trigger string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e, ok := t.Lookup(trigger)
	if !ok {
		return 0, fmt.Errorf("unknown command trigger %q", trigger)
	}
	pid, err := process.SpawnArgv(e.Argv, e.WorkDir)
	if err != nil {
		return 0, fmt.Errorf("command %q: %w", trigger, err)
	}
	return pid, nil
}
