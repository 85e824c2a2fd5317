package domain

import "time"

// Worker modes.
const (
	// WorkerInProcess runs the worker on a goroutine of the host.
	WorkerInProcess = "inprocess"
	// WorkerDaemon runs the worker as a background process reached over a Unix socket.
	WorkerDaemon = "daemon"
)

// DefaultIdleTimeout is how long an unused worker daemon stays alive.
const DefaultIdleTimeout = 30 * time.Minute

// DefaultMaxDeviation is the tessellation tolerance used when none is configured.
const DefaultMaxDeviation = 0.1

// Config is the resolved project configuration.
type Config struct {
	// Path is the file the configuration was read from, empty for defaults.
	Path         string
	CacheEnabled bool
	MaxDeviation float64
	WorkerMode   string
	SocketPath   string
	IdleTimeout  time.Duration
	GUI          GUIState
	ExportFormat string
}

// DefaultConfig returns the configuration used when no carve.yaml is found.
func DefaultConfig() *Config {
	return &Config{
		CacheEnabled: true,
		MaxDeviation: DefaultMaxDeviation,
		WorkerMode:   WorkerInProcess,
		SocketPath:   DefaultDaemonSocketPath(),
		IdleTimeout:  DefaultIdleTimeout,
		GUI:          GUIState{},
		ExportFormat: "stl",
	}
}
