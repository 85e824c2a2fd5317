package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a TUI renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has exited.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnEvaluationStart resets the view for a new run of script.
func (r *Renderer) OnEvaluationStart(script string, startTime time.Time) {
	r.program.Send(msgEvalStart{Script: filepath.Base(script), StartTime: startTime})
}

// OnOpStart appends a running operation.
func (r *Renderer) OnOpStart(opNumber int, name string, startTime time.Time) {
	r.program.Send(msgOpStart{Number: opNumber, Name: name, StartTime: startTime})
}

// OnOpComplete marks an operation done.
func (r *Renderer) OnOpComplete(opNumber int, endTime time.Time) {
	r.program.Send(msgOpComplete{Number: opNumber, EndTime: endTime})
}

// OnLog appends a printed line to the output pane.
func (r *Renderer) OnLog(message string) {
	r.program.Send(msgLog{Message: message})
}

// OnEvaluationComplete freezes the view with the final status.
func (r *Renderer) OnEvaluationComplete(endTime time.Time, err error) {
	r.program.Send(msgEvalComplete{EndTime: endTime, Err: err})
}

// Program returns the underlying program.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
