package protocol

import (
	"context"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
)

// AwaitReady reads from conn until the worker announces readiness. Other
// messages are passed to onNotify.
func AwaitReady(ctx context.Context, conn ports.Conn, onNotify func(domain.Message)) error {
	_, err := awaitType(ctx, conn, domain.MsgStartup, onNotify)
	return err
}

// Call sends a request and reads until its echo arrives, passing every
// notification received meanwhile to onNotify. Requests that may echo nothing
// must not be sent through Call.
func Call(
	ctx context.Context,
	conn ports.Conn,
	msgType string,
	payload any,
	onNotify func(domain.Message),
) (domain.Message, error) {
	if err := conn.Send(ctx, domain.Message{Type: msgType, Payload: payload}); err != nil {
		return domain.Message{}, err
	}
	return awaitType(ctx, conn, msgType, onNotify)
}

// Request is Call for requests whose handler reports failure with an error
// notification and no echo. An error notification ends the wait and is
// returned as a *domain.EvalError.
func Request(
	ctx context.Context,
	conn ports.Conn,
	msgType string,
	payload any,
	onNotify func(domain.Message),
) (domain.Message, error) {
	if err := conn.Send(ctx, domain.Message{Type: msgType, Payload: payload}); err != nil {
		return domain.Message{}, err
	}
	for {
		msg, err := conn.Recv(ctx)
		if err != nil {
			return domain.Message{}, err
		}
		switch msg.Type {
		case msgType:
			return msg, nil
		case domain.MsgError:
			p, err := Decode[domain.ErrorPayload](msg.Payload)
			if err != nil {
				return domain.Message{}, err
			}
			return domain.Message{}, p.Err()
		}
		if onNotify != nil {
			onNotify(msg)
		}
	}
}

func awaitType(
	ctx context.Context,
	conn ports.Conn,
	msgType string,
	onNotify func(domain.Message),
) (domain.Message, error) {
	for {
		msg, err := conn.Recv(ctx)
		if err != nil {
			return domain.Message{}, err
		}
		if msg.Type == msgType {
			return msg, nil
		}
		if onNotify != nil {
			onNotify(msg)
		}
	}
}
