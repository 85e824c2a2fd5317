package protocol

import (
	"context"
	"errors"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/modeling"
	"go.trai.ch/carve/internal/engine/session"
	"go.trai.ch/zerr"
)

// TimingSource reports per-operation timings for the stats request.
type TimingSource interface {
	Timings() map[string]domain.OpTiming
}

// Worker serves protocol requests against one evaluation session.
type Worker struct {
	kernel     ports.Kernel
	session    *session.Session
	timings    TimingSource
	logger     ports.Logger
	dispatcher *Dispatcher
}

// NewWorker creates a Worker with the evaluate, combineAndRenderShapes and
// stats handlers registered. timings may be nil.
func NewWorker(kernel ports.Kernel, sess *session.Session, timings TimingSource, logger ports.Logger) *Worker {
	w := &Worker{
		kernel:     kernel,
		session:    sess,
		timings:    timings,
		logger:     logger,
		dispatcher: NewDispatcher(logger),
	}
	w.dispatcher.Register(domain.MsgEvaluate, w.evaluate)
	w.dispatcher.Register(domain.MsgCombineAndRender, w.render)
	w.dispatcher.Register(domain.MsgStats, w.stats)
	return w
}

// Dispatcher returns the request dispatcher, for registering more handlers.
func (w *Worker) Dispatcher() *Dispatcher {
	return w.dispatcher
}

// Serve initializes the kernel, announces readiness and handles requests in
// arrival order until a shutdown request arrives or the connection closes.
func (w *Worker) Serve(ctx context.Context, conn ports.Conn) error {
	if err := w.kernel.Init(ctx); err != nil {
		return zerr.Wrap(err, "failed to initialize kernel")
	}
	if err := conn.Send(ctx, domain.Message{Type: domain.MsgStartup}); err != nil {
		return err
	}

	for {
		msg, err := conn.Recv(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrConnectionClosed) {
				return nil
			}
			return err
		}
		if msg.Type == domain.MsgShutdown {
			// The peer may already be gone.
			_ = conn.Send(ctx, domain.Message{Type: domain.MsgShutdown, Payload: map[string]any{}})
			return nil
		}
		if err := w.dispatcher.Dispatch(ctx, conn, msg); err != nil {
			if errors.Is(err, domain.ErrConnectionClosed) {
				return nil
			}
			return err
		}
	}
}

func (w *Worker) evaluate(ctx context.Context, msg domain.Message, notify Notify) (any, error) {
	req, err := Decode[domain.EvaluatePayload](msg.Payload)
	if err != nil {
		return nil, err
	}
	res, err := w.session.Evaluate(ctx, req, modeling.Notifier(notify))
	if res == nil {
		return nil, err
	}
	if err != nil {
		var evalErr *domain.EvalError
		if !errors.As(err, &evalErr) {
			evalErr = &domain.EvalError{Cause: err}
		}
		notify(domain.MsgError, evalErr.Payload(res.Session))
	}
	return res, nil
}

func (w *Worker) render(_ context.Context, msg domain.Message, _ Notify) (any, error) {
	req, err := Decode[domain.RenderRequest](msg.Payload)
	if err != nil {
		return nil, err
	}
	res, err := w.session.Render(req.MaxDeviation)
	if errors.Is(err, domain.ErrNothingToRender) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (w *Worker) stats(context.Context, domain.Message, Notify) (any, error) {
	res := domain.StatsResult{Cache: w.session.Stats(), Timings: map[string]domain.OpTiming{}}
	if w.timings != nil {
		res.Timings = w.timings.Timings()
	}
	return res, nil
}
