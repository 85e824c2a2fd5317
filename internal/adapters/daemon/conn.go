package daemon

import (
	"context"
	"errors"
	"io"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/protocol"
	"go.trai.ch/zerr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// msgStream is the part of grpc.ClientStream and grpc.ServerStream a
// streamConn needs.
type msgStream interface {
	SendMsg(m any) error
	RecvMsg(m any) error
}

// streamConn carries protocol envelopes over a Session stream. Each envelope
// is a Struct with "type" and "payload" fields.
//
// Recv cannot be interrupted per call: cancellation follows the stream's own
// context.
type streamConn struct {
	stream  msgStream
	onClose func() error
	onRecv  func()
}

func (c *streamConn) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env, err := encodeEnvelope(msg)
	if err != nil {
		return err
	}
	if err := c.stream.SendMsg(env); err != nil {
		return streamError(err, "stream send failed")
	}
	return nil
}

func (c *streamConn) Recv(ctx context.Context) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	env := new(structpb.Struct)
	if err := c.stream.RecvMsg(env); err != nil {
		return domain.Message{}, streamError(err, "stream receive failed")
	}
	if c.onRecv != nil {
		c.onRecv()
	}
	return decodeEnvelope(env), nil
}

func (c *streamConn) Close() error {
	if c.onClose == nil {
		return nil
	}
	return c.onClose()
}

func encodeEnvelope(msg domain.Message) (*structpb.Struct, error) {
	msg, err := protocol.Normalize(msg)
	if err != nil {
		return nil, err
	}
	env, err := structpb.NewStruct(map[string]any{"type": msg.Type, "payload": msg.Payload})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPayloadEncodeFailed, err), "type", msg.Type)
	}
	return env, nil
}

func decodeEnvelope(env *structpb.Struct) domain.Message {
	m := env.AsMap()
	t, _ := m["type"].(string)
	return domain.Message{Type: t, Payload: m["payload"]}
}

// streamError maps the end of a stream to domain.ErrConnectionClosed.
func streamError(err error, msg string) error {
	if errors.Is(err, io.EOF) {
		return domain.ErrConnectionClosed
	}
	switch status.Code(err) {
	case codes.Canceled, codes.Unavailable:
		return errors.Join(domain.ErrConnectionClosed, err)
	}
	return zerr.Wrap(err, msg)
}
