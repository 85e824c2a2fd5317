package daemon

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
)

// Connector implements ports.DaemonConnector.
type Connector struct {
	executablePath string
}

// NewConnector creates a new daemon connector.
func NewConnector() (*Connector, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return &Connector{executablePath: exe}, nil
}

// Connect returns a client, spawning the daemon if necessary.
func (c *Connector) Connect(ctx context.Context, socket string) (ports.DaemonClient, error) {
	client, err := Dial(socket)
	if err == nil {
		if pingErr := client.Ping(ctx); pingErr == nil {
			return client, nil
		}
		_ = client.Close()
	}

	if spawnErr := c.Spawn(ctx, socket); spawnErr != nil {
		return nil, spawnErr
	}

	client, err = Dial(socket)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}

	if pingErr := client.Ping(ctx); pingErr != nil {
		_ = client.Close()
		return nil, zerr.Wrap(pingErr, "daemon started but is not responsive")
	}

	return client, nil
}

// Dial returns a client to a daemon that is expected to be running.
func (c *Connector) Dial(socket string) (ports.DaemonClient, error) {
	if !c.IsRunning(socket) {
		return nil, zerr.With(zerr.Wrap(domain.ErrDaemonUnavailable, "dial failed"), "socket", socket)
	}
	return Dial(socket)
}

// IsRunning checks if the daemon is running and responsive.
func (c *Connector) IsRunning(socket string) bool {
	if socket == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return c.isRunningWithCtx(ctx, socket)
}

// isRunningWithCtx checks if the daemon is running and responsive, respecting the provided context.
func (c *Connector) isRunningWithCtx(ctx context.Context, socket string) bool {
	if _, err := os.Stat(socket); err != nil {
		return false
	}

	client, err := Dial(socket)
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	return client.Ping(ctx) == nil
}

// Spawn starts the daemon process in the background. Its log is written next
// to the socket.
func (c *Connector) Spawn(ctx context.Context, socket string) error {
	if socket == "" {
		return zerr.New("socket path cannot be empty")
	}

	absSocket, err := filepath.Abs(socket)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve absolute socket path")
	}

	daemonDir := filepath.Dir(absSocket)
	if mkdirErr := os.MkdirAll(daemonDir, domain.DirPerm); mkdirErr != nil {
		return zerr.Wrap(mkdirErr, "failed to create daemon directory")
	}

	logPath := filepath.Join(daemonDir, domain.DaemonLogFile)
	//nolint:gosec // G304: logPath is the socket directory + domain constant
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open daemon log")
	}

	//nolint:gosec // G204: executablePath is controlled, args are fixed literals
	cmd := exec.Command(c.executablePath, "worker", "serve", "--socket", absSocket, "--log-format", "json")
	cmd.Dir = filepath.Dir(daemonDir)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(errors.Join(domain.ErrDaemonSpawnFailed, err), "socket", absSocket)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return c.waitForDaemonStartup(ctx, absSocket)
}

// waitForDaemonStartup waits for the daemon to become responsive.
func (c *Connector) waitForDaemonStartup(ctx context.Context, socket string) error {
	start := time.Now()
	for time.Since(start) < maxPollDuration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.isRunningWithCtx(ctx, socket) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrDaemonUnavailable, "daemon failed to start within timeout"), "timeout", maxPollDuration.String())
}
