package ports

import (
	"context"

	"go.trai.ch/carve/internal/core/domain"
)

// Conn is one side of a protocol connection between a host and a worker.
// Messages are delivered in order. Send and Recv may be used from different
// goroutines, but neither is safe for concurrent use with itself.
//
//go:generate mockgen -source=conn.go -destination=mocks/mock_conn.go -package=mocks
type Conn interface {
	// Send delivers a message to the peer.
	Send(ctx context.Context, msg domain.Message) error
	// Recv blocks until the next message from the peer arrives.
	Recv(ctx context.Context) (domain.Message, error)
	// Close releases the connection. The peer observes domain.ErrConnectionClosed.
	Close() error
}
