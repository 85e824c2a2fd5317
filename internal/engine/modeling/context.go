// Package modeling implements the operations user scripts call. Every
// operation runs through the operation cache and keeps the scene accumulator
// holding only the leaves of the build graph.
package modeling

import (
	"context"
	"fmt"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.trai.ch/carve/internal/engine/scene"
)

// Notifier sends a protocol notification to the host.
type Notifier func(msgType string, payload any)

// Context is the state shared by all operations of one evaluation.
type Context struct {
	ctx    context.Context
	kernel ports.Kernel
	cache  *opcache.Cache
	scene  *scene.Accumulator
	exec   *opcache.Execution
	gui    domain.GUIState
	notify Notifier

	op     string
	line   int
	column int
}

// NewContext creates a Context. gui is modified in place when controls install
// their defaults.
func NewContext(
	ctx context.Context,
	kernel ports.Kernel,
	cache *opcache.Cache,
	acc *scene.Accumulator,
	exec *opcache.Execution,
	gui domain.GUIState,
	notify Notifier,
) *Context {
	if gui == nil {
		gui = domain.GUIState{}
	}
	if notify == nil {
		notify = func(string, any) {}
	}
	return &Context{
		ctx:    ctx,
		kernel: kernel,
		cache:  cache,
		scene:  acc,
		exec:   exec,
		gui:    gui,
		notify: notify,
	}
}

// SetPosition records the operation about to run and its source position.
func (c *Context) SetPosition(op string, line, column int) {
	c.op, c.line, c.column = op, line, column
}

// Position returns the last recorded operation and source position.
func (c *Context) Position() (op string, line, column int) {
	return c.op, c.line, c.column
}

// GUI returns the GUI state of the evaluation.
func (c *Context) GUI() domain.GUIState {
	return c.gui
}

// build executes op through the cache, delegating to the kernel on a miss.
func (c *Context) build(op domain.Op) (domain.Shape, error) {
	return c.cache.Execute(c.ctx, c.exec, op, func() (domain.Shape, error) {
		h, err := c.kernel.Build(op)
		if err != nil {
			return domain.Shape{}, err
		}
		return domain.Shape{Handle: h}, nil
	})
}

// produce builds op, removes its inputs from the scene unless keep is set,
// and adds the result.
func (c *Context) produce(op domain.Op, inputs []domain.Shape, keep bool) (domain.Shape, error) {
	s, err := c.build(op)
	if err != nil {
		return domain.Shape{}, err
	}
	if !keep {
		c.scene.RemoveAll(inputs)
	}
	c.scene.Add(s)
	return s, nil
}

// each applies a single-shape operation to every shape.
func (c *Context) each(shapes []domain.Shape, keep bool, op func(domain.Shape) domain.Op) ([]domain.Shape, error) {
	out := make([]domain.Shape, 0, len(shapes))
	for _, s := range shapes {
		r, err := c.produce(op(s), []domain.Shape{s}, keep)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidArgument}, args...)...)
}

// Print sends a log line to the host.
func (c *Context) Print(msg string) {
	c.notify(domain.MsgLog, domain.LogPayload{Message: msg})
}

// Edges returns the number of edges of shape.
func (c *Context) Edges(shape domain.Shape) (int, error) {
	topo, err := c.kernel.Explore(shape.Handle)
	if err != nil {
		return 0, err
	}
	return len(topo.Edges), nil
}
