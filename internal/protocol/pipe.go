package protocol

import (
	"context"
	"sync"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
)

const pipeBuffer = 64

// Pipe returns two connected in-process connections. Closing either end
// closes both.
func Pipe() (host, worker ports.Conn) {
	toWorker := make(chan domain.Message, pipeBuffer)
	toHost := make(chan domain.Message, pipeBuffer)
	l := &link{done: make(chan struct{})}
	return &pipeConn{link: l, in: toHost, out: toWorker},
		&pipeConn{link: l, in: toWorker, out: toHost}
}

type link struct {
	once sync.Once
	done chan struct{}
}

func (l *link) close() {
	l.once.Do(func() { close(l.done) })
}

type pipeConn struct {
	*link
	in  <-chan domain.Message
	out chan<- domain.Message
}

func (c *pipeConn) Send(ctx context.Context, msg domain.Message) error {
	msg, err := Normalize(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
	}
	select {
	case c.out <- msg:
		return nil
	case <-c.done:
		return domain.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *pipeConn) Recv(ctx context.Context) (domain.Message, error) {
	// Drain what was sent before the peer closed.
	select {
	case msg := <-c.in:
		return msg, nil
	default:
	}
	select {
	case msg := <-c.in:
		return msg, nil
	case <-c.done:
		return domain.Message{}, domain.ErrConnectionClosed
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	}
}

func (c *pipeConn) Close() error {
	c.close()
	return nil
}
