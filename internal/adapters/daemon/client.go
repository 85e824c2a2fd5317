// Package daemon implements the background worker daemon adapter for carve.
// It provides gRPC server and client for inter-process communication over Unix Domain Sockets.
package daemon

import (
	"context"
	"time"

	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client implements ports.DaemonClient.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the daemon over UDS.
// Note: grpc.NewClient returns immediately; actual connection happens lazily on first RPC.
func Dial(socketPath string) (*Client, error) {
	return dialTarget("unix://"+socketPath, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func dialTarget(target string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}
	return &Client{conn: conn}, nil
}

// Ping implements ports.DaemonClient.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodPing, &emptypb.Empty{}, new(structpb.Struct))
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodStatus, &emptypb.Empty{}, resp); err != nil {
		return nil, err
	}
	f := resp.GetFields()
	seconds := func(key string) time.Duration {
		return time.Duration(f[key].GetNumberValue() * float64(time.Second))
	}
	return &ports.DaemonStatus{
		Running:       f["running"].GetBoolValue(),
		PID:           int(f["pid"].GetNumberValue()),
		Uptime:        seconds("uptimeSeconds"),
		LastActivity:  time.Unix(int64(f["lastActivityUnix"].GetNumberValue()), 0),
		IdleRemaining: seconds("idleRemainingSeconds"),
		Sessions:      int(f["sessions"].GetNumberValue()),
	}, nil
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodShutdown, &emptypb.Empty{}, new(emptypb.Empty))
}

// Open implements ports.DaemonClient. The session lasts until the returned
// connection is closed or ctx is done.
func (c *Client) Open(ctx context.Context) (ports.Conn, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.conn.NewStream(streamCtx, &sessionStreamDesc, methodSession)
	if err != nil {
		cancel()
		return nil, zerr.Wrap(err, "failed to open worker session")
	}
	return &streamConn{
		stream: stream,
		onClose: func() error {
			err := stream.CloseSend()
			cancel()
			return err
		},
	}, nil
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}
