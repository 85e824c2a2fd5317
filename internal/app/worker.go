package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/carve/internal/adapters/daemon" //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/session"
	"go.trai.ch/carve/internal/protocol"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 2 * time.Second

// openWorker returns a connection to a worker whose startup notification has
// not been read yet, and a function that ends the worker session.
func (a *App) openWorker(
	ctx context.Context,
	cfg *domain.Config,
	forceDaemon bool,
	log ports.Logger,
) (ports.Conn, func(), error) {
	if forceDaemon || cfg.WorkerMode == domain.WorkerDaemon {
		client, err := a.connector.Connect(ctx, cfg.SocketPath)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to connect to worker daemon")
		}
		conn, err := client.Open(ctx)
		if err != nil {
			_ = client.Close()
			return nil, nil, zerr.Wrap(err, "failed to open worker session")
		}
		return conn, func() {
			shutdownWorker(conn)
			_ = conn.Close()
			_ = client.Close()
		}, nil
	}

	host, conn := protocol.Pipe()
	sess := session.New(a.kernel, a.tess, a.tracer, log)
	worker := protocol.NewWorker(a.kernel, sess, a.bridge, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = conn.Close() }()
		if err := worker.Serve(ctx, conn); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(zerr.Wrap(err, "worker stopped"))
		}
	}()

	return host, func() {
		shutdownWorker(host)
		_ = host.Close()
		<-done
	}, nil
}

// shutdownWorker ends the worker loop of a session. The connection may
// already be gone.
func shutdownWorker(conn ports.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_, _ = protocol.Call(ctx, conn, domain.MsgShutdown, map[string]any{}, nil)
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Socket      string
	IdleTimeout time.Duration
}

// Serve runs the worker as a daemon until it idles out, is stopped or ctx ends.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	socket := cmp.Or(opts.Socket, cfg.SocketPath)
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = cfg.IdleTimeout
	}

	setupOTel(a.bridge)

	sess := session.New(a.kernel, a.tess, a.tracer, a.logger)
	worker := protocol.NewWorker(a.kernel, sess, a.bridge, a.logger)
	server := daemon.NewServer(daemon.NewLifecycle(idle), worker, a.logger)

	err = server.Serve(ctx, socket)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Status reports on the worker daemon.
func (a *App) Status(ctx context.Context, socket string) error {
	socket, err := a.resolveSocket(socket)
	if err != nil {
		return err
	}

	if !a.connector.IsRunning(socket) {
		a.logger.Info("worker daemon is not running")
		return nil
	}

	client, err := a.connector.Dial(socket)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	status, err := client.Status(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to query worker daemon")
	}

	a.logger.Info(fmt.Sprintf("worker daemon running (pid %d)", status.PID))
	a.logger.Info(fmt.Sprintf("uptime: %s", status.Uptime.Round(time.Second)))
	a.logger.Info(fmt.Sprintf("last activity: %s", status.LastActivity.Format(time.RFC3339)))
	if status.Sessions > 0 {
		a.logger.Info(fmt.Sprintf("idle shutdown paused: %d open session(s)", status.Sessions))
	} else {
		a.logger.Info(fmt.Sprintf("idle shutdown in: %s", status.IdleRemaining.Round(time.Second)))
	}
	return nil
}

// Stop asks the worker daemon to shut down.
func (a *App) Stop(ctx context.Context, socket string) error {
	socket, err := a.resolveSocket(socket)
	if err != nil {
		return err
	}

	if !a.connector.IsRunning(socket) {
		a.logger.Info("worker daemon is not running")
		return nil
	}

	client, err := a.connector.Dial(socket)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "failed to stop worker daemon")
	}
	a.logger.Info("worker daemon stopped")
	return nil
}

// resolveSocket returns socket, or the one configured for the current directory.
func (a *App) resolveSocket(socket string) (string, error) {
	if socket != "" {
		return socket, nil
	}
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return "", zerr.Wrap(err, "failed to load configuration")
	}
	return cfg.SocketPath, nil
}
