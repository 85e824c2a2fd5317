package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for host-side progress output.
// It is fed from the worker's progress notifications so that the same stream
// drives either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnEvaluationStart is called when a script is sent to the worker.
	OnEvaluationStart(script string, startTime time.Time)

	// OnOpStart is called when the worker starts operation number opNumber.
	OnOpStart(opNumber int, name string, startTime time.Time)

	// OnOpComplete is called when operation number opNumber finishes.
	OnOpComplete(opNumber int, endTime time.Time)

	// OnLog is called for every line printed by user code.
	OnLog(message string)

	// OnEvaluationComplete is called once per evaluation.
	// err is nil on success.
	OnEvaluationComplete(endTime time.Time, err error)
}
