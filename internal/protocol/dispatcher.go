package protocol

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
)

// Notify sends a notification to the peer while a request is handled.
type Notify func(msgType string, payload any)

// Handler handles one request type. A non-nil result is echoed back to the
// peer tagged with the request type.
type Handler func(ctx context.Context, msg domain.Message, notify Notify) (any, error)

// Dispatcher routes requests to their registered handler.
type Dispatcher struct {
	handlers map[string]Handler
	logger   ports.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger ports.Logger) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler), logger: logger}
}

// Register installs h for msgType, replacing any previous handler.
func (d *Dispatcher) Register(msgType string, h Handler) {
	d.handlers[msgType] = h
}

// Dispatch runs the handler for msg and sends its result and notifications on
// conn. Unregistered types are ignored. A failing handler is reported to the
// peer as an error notification. Only connection failures are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, conn ports.Conn, msg domain.Message) error {
	h, ok := d.handlers[msg.Type]
	if !ok {
		d.logger.Warn(fmt.Sprintf("ignoring unregistered message type %q", msg.Type))
		return nil
	}

	var sendErr error
	notify := func(msgType string, payload any) {
		if sendErr != nil {
			return
		}
		sendErr = conn.Send(ctx, domain.Message{Type: msgType, Payload: payload})
	}

	result, err := h(ctx, msg, notify)
	if err != nil {
		notify(domain.MsgError, errorPayload(err))
	} else if result != nil {
		notify(msg.Type, result)
	}
	return sendErr
}

func errorPayload(err error) domain.ErrorPayload {
	var evalErr *domain.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Payload("")
	}
	return domain.ErrorPayload{Message: err.Error()}
}
