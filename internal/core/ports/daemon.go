package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonStatus represents the current state of the worker daemon.
type DaemonStatus struct {
	Running       bool
	PID           int
	Uptime        time.Duration
	LastActivity  time.Time
	IdleRemaining time.Duration
	// Sessions is the number of open evaluation sessions. The idle clock is
	// paused while it is non-zero.
	Sessions int
}

// DaemonClient defines the interface for communicating with the worker daemon.
type DaemonClient interface {
	// Ping checks if the daemon is alive and resets the inactivity timer.
	Ping(ctx context.Context) error

	// Status returns the current daemon status.
	Status(ctx context.Context) (*DaemonStatus, error)

	// Shutdown requests a graceful daemon shutdown.
	Shutdown(ctx context.Context) error

	// Open starts a protocol session with the daemon's worker.
	Open(ctx context.Context) (Conn, error)

	// Close releases client resources.
	Close() error
}

// DaemonConnector manages daemon lifecycle from the CLI perspective.
// Every method takes the absolute path of the daemon's Unix socket.
type DaemonConnector interface {
	// Connect returns a client to the daemon, spawning it if necessary.
	Connect(ctx context.Context, socket string) (DaemonClient, error)

	// Dial returns a client to a daemon that is already running.
	Dial(socket string) (DaemonClient, error)

	// IsRunning checks if the daemon process is currently running.
	IsRunning(socket string) bool

	// Spawn starts a new daemon process in the background.
	Spawn(ctx context.Context, socket string) error
}
