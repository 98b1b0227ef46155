package detector

// Detector is a strategy that determines if an external service is running.
// Implementations may probe a check command, a PID file, the OS process
// table, or an HTTP endpoint. It must be safe for concurrent use.
type Detector interface {
	// Alive returns true if the service is detected as running.
	// false with a nil error means "checked fine, not running";
	// a non-nil error means the check itself could not be executed.
	Alive() (bool, error)
	// Describe returns a human-readable description of the detection method.
	Describe() string
}
