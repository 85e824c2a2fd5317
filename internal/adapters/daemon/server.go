package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const stopGracePeriod = 2 * time.Second

// SessionServer runs the protocol worker loop over one connection.
// protocol.Worker implements it.
type SessionServer interface {
	Serve(ctx context.Context, conn ports.Conn) error
}

// Server implements the gRPC daemon service.
type Server struct {
	lifecycle  *Lifecycle
	worker     SessionServer
	logger     ports.Logger
	grpcServer *grpc.Server

	// sessions are served one at a time so that evaluations never interleave.
	sessionMu sync.Mutex
}

// NewServer creates a new daemon server that hands every Session stream to worker.
func NewServer(lifecycle *Lifecycle, worker SessionServer, logger ports.Logger) *Server {
	s := &Server{
		lifecycle:  lifecycle,
		worker:     worker,
		logger:     logger,
		grpcServer: grpc.NewServer(),
	}
	registerWorkerDaemonServer(s.grpcServer, s)
	return s
}

// Serve starts the gRPC server on the Unix socket and blocks until ctx is
// done, the lifecycle shuts down, or the server fails.
func (s *Server) Serve(ctx context.Context, socketPath string) error {
	dir := filepath.Dir(socketPath)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return zerr.Wrap(err, "failed to listen on UDS")
	}

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	pidPath := filepath.Join(dir, domain.DaemonPIDFile)
	if err := os.WriteFile(pidPath, fmt.Appendf(nil, "%d", os.Getpid()), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write PID file")
	}

	defer func() {
		_ = os.Remove(socketPath)
		_ = os.Remove(pidPath)
	}()

	s.logger.Info(fmt.Sprintf("worker daemon listening on %s", socketPath))
	return s.serveListener(ctx, lis)
}

func (s *Server) serveListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.stop()
		return ctx.Err()
	case <-s.lifecycle.Done():
		s.stop()
		return nil
	case err := <-errCh:
		return err
	}
}

// stop lets in-flight calls finish but does not wait longer than
// stopGracePeriod for open sessions.
func (s *Server) stop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(stopGracePeriod):
		s.grpcServer.Stop()
	}
}

// Ping implements the daemon service.
func (s *Server) Ping(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.lifecycle.Touch()
	return structpb.NewStruct(map[string]any{
		"idleRemainingSeconds": s.lifecycle.IdleRemaining().Seconds(),
	})
}

// Status implements the daemon service.
func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.lifecycle.Touch()
	return structpb.NewStruct(map[string]any{
		"running":              true,
		"sessions":             s.lifecycle.Sessions(),
		"pid":                  os.Getpid(),
		"uptimeSeconds":        s.lifecycle.Uptime().Seconds(),
		"lastActivityUnix":     s.lifecycle.LastActivity().Unix(),
		"idleRemainingSeconds": s.lifecycle.IdleRemaining().Seconds(),
	})
}

// Shutdown implements the daemon service.
func (s *Server) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.logger.Info("worker daemon shutting down on request")
	s.lifecycle.Stop()
	return &emptypb.Empty{}, nil
}

// Session implements the daemon service.
func (s *Server) Session(stream grpc.ServerStream) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	s.lifecycle.Begin()
	defer s.lifecycle.End()

	conn := &streamConn{stream: stream, onRecv: s.lifecycle.Touch}
	if err := s.worker.Serve(stream.Context(), conn); err != nil {
		s.logger.Error(zerr.Wrap(err, "worker session failed"))
		return err
	}
	return nil
}
