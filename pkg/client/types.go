package client

import "time"

// ServiceStatus is one service's row in a status snapshot.
type ServiceStatus struct {
	Name       string `json:"name"`
	State      string `json:"state"` // running, stopped, unknown
	DetectedBy string `json:"detected_by,omitempty"`
}

// StatusSnapshot is a point-in-time read of every declared service.
type StatusSnapshot struct {
	TakenAt time.Time       `json:"taken_at"`
	Entries []ServiceStatus `json:"entries"`
}

// LaunchResult reports what a launch request did for one service.
type LaunchResult struct {
	Name       string `json:"name"`
	State      string `json:"state"` // already-running, started, start-failed
	DetectedBy string `json:"detected_by,omitempty"`
	PID        int    `json:"pid,omitempty"`
	Ready      bool   `json:"ready"`
	Error      string `json:"error,omitempty"`
}

// CommandEntry is one trigger-word command in the table.
type CommandEntry struct {
	Trigger     string   `json:"trigger"`
	Argv        []string `json:"argv"`
	WorkDir     string   `json:"workdir,omitempty"`
	Description string   `json:"description,omitempty"`
	Group       string   `json:"group,omitempty"`
}

// RunResult reports a fired trigger command.
type RunResult struct {
	OK  bool `json:"ok"`
	PID int  `json:"pid,omitempty"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
