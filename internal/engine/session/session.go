// Package session runs user scripts against the operation cache and keeps the
// result of the last successful run ready for rendering.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/engine/modeling"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.trai.ch/carve/internal/engine/scene"
	"go.trai.ch/carve/internal/engine/script"
	"go.trai.ch/carve/internal/engine/topology"
	"go.trai.ch/zerr"
)

// State represents the state of a session.
type State string

const (
	// StateIdle indicates the session accepts a new evaluation.
	StateIdle State = "Idle"
	// StateRunning indicates user code is executing.
	StateRunning State = "Running"
	// StateSucceeded indicates the last run completed and is being finalized.
	StateSucceeded State = "Succeeded"
	// StateFailed indicates the last run failed and is being finalized.
	StateFailed State = "Failed"
)

// Session owns the cache, scene and usage set of one worker. Evaluations run
// one at a time.
type Session struct {
	kernel ports.Kernel
	tess   ports.Tessellator
	tracer ports.Tracer
	logger ports.Logger

	cache *opcache.Cache
	scene *scene.Accumulator
	usage *opcache.UsageSet
	dedup *topology.Deduplicator

	mu      sync.Mutex
	state   State
	pending *topology.Accumulation
}

// New creates an idle Session with an empty cache.
func New(kernel ports.Kernel, tess ports.Tessellator, tracer ports.Tracer, logger ports.Logger) *Session {
	return &Session{
		kernel: kernel,
		tess:   tess,
		tracer: tracer,
		logger: logger,
		cache:  opcache.New(kernel, tracer),
		scene:  scene.New(),
		usage:  opcache.NewUsageSet(),
		dedup:  topology.New(kernel, logger),
		state:  StateIdle,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cache returns the operation cache.
func (s *Session) Cache() *opcache.Cache {
	return s.cache
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// Evaluate runs req.Code. Notifications produced while running, including the
// final resetWorking, are passed to notify. The result is returned for failed
// runs too; the error is then a *domain.EvalError.
func (s *Session) Evaluate(
	ctx context.Context,
	req domain.EvaluatePayload,
	notify modeling.Notifier,
) (res *domain.EvaluateResult, err error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, domain.ErrSessionBusy
	}
	s.state = StateRunning
	s.pending = nil
	s.mu.Unlock()

	if notify == nil {
		notify = func(string, any) {}
	}

	id := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "evaluate")
	span.SetAttribute("carve.session", id)
	defer span.End()
	notify = recordLogs(span, notify)

	gui := req.GUIState.Clone()
	progress := opcache.NewProgress(func(p domain.ProgressPayload) {
		notify(domain.MsgProgress, p)
	})
	exec := &opcache.Execution{
		Usage:    s.usage,
		Progress: progress,
		Caching:  gui.CachingEnabled() && !req.NoCache,
	}
	s.usage.Clear()
	s.scene.Reset()

	res = &domain.EvaluateResult{Session: id}
	defer func() {
		res.Operations = progress.Count()
		res.Evicted = s.finalize(notify)
	}()

	mctx := modeling.NewContext(ctx, s.kernel, s.cache, s.scene, exec, gui, notify)
	if err := s.run(mctx, req.Code); err != nil {
		s.transition(StateFailed)
		span.RecordError(err)
		s.logger.Warn(fmt.Sprintf("evaluation %s failed: %v", id, err))
		return res, err
	}

	acc, err := s.dedup.Accumulate(s.scene.Shapes())
	if err != nil {
		s.transition(StateFailed)
		span.RecordError(err)
		return res, &domain.EvalError{Operation: domain.CompoundOp{}.OpName(), Cause: err}
	}
	s.transition(StateSucceeded)
	s.scene.Reset()

	s.mu.Lock()
	s.pending = acc
	s.mu.Unlock()

	res.Succeeded = true
	res.Shapes = acc.Shapes
	span.SetAttribute("carve.shapes", acc.Shapes)
	return res, nil
}

// run executes code. Failures, including kernel panics, come back as
// *domain.EvalError attributed to the last call that started.
func (s *Session) run(mctx *modeling.Context, code string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			op, line, col := mctx.Position()
			err = &domain.EvalError{
				Operation: op,
				Line:      line,
				Column:    col,
				Cause:     errors.Join(domain.ErrKernelPanic, fmt.Errorf("%v", r)),
			}
		}
	}()

	in := script.New(mctx.Library(), nil)
	in.OnCall(func(name string, at script.Pos) {
		mctx.SetPosition(name, at.Line, at.Column)
	})
	if err := in.Run(code); err != nil {
		var evalErr *domain.EvalError
		if errors.As(err, &evalErr) {
			return err
		}
		op, line, col := mctx.Position()
		return &domain.EvalError{Operation: op, Line: line, Column: col, Cause: err}
	}
	return nil
}

// finalize runs after every evaluation regardless of its outcome. It returns
// the number of evicted cache entries.
func (s *Session) finalize(notify modeling.Notifier) int {
	notify(domain.MsgResetWorking, nil)
	evicted := s.cache.Sweep(s.usage)
	s.usage.Clear()
	s.reclaim()
	s.transition(StateIdle)
	return evicted
}

// reclaim lets the kernel free everything except cached shapes and the
// pending accumulation.
func (s *Session) reclaim() {
	r, ok := s.kernel.(ports.Reclaimer)
	if !ok {
		return
	}
	live := s.cache.Handles()
	s.mu.Lock()
	if s.pending != nil && !s.pending.Compound.IsNull() {
		live = append(live, s.pending.Compound.Handle)
	}
	s.mu.Unlock()
	r.Retain(live)
}

// Render tessellates the accumulation of the last successful evaluation and
// consumes it. It returns domain.ErrNothingToRender when no accumulation is
// pending.
func (s *Session) Render(maxDeviation float64) (*domain.RenderResult, error) {
	s.mu.Lock()
	acc := s.pending
	s.pending = nil
	s.mu.Unlock()

	if acc == nil {
		return nil, domain.ErrNothingToRender
	}
	if acc.Empty() {
		return &domain.RenderResult{}, nil
	}
	if maxDeviation <= 0 {
		maxDeviation = domain.DefaultMaxDeviation
	}

	mesh, err := s.tessellate(acc, maxDeviation)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to tessellate scene"), "shapes", acc.Shapes)
	}
	return &domain.RenderResult{
		Mesh:      mesh,
		EdgeCount: acc.EdgeCount,
		FaceCount: acc.FaceCount,
	}, nil
}

// tessellate calls the tessellator. A panic comes back as a *domain.EvalError
// so the worker keeps serving.
func (s *Session) tessellate(acc *topology.Accumulation, maxDeviation float64) (mesh domain.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.EvalError{
				Operation: domain.MsgCombineAndRender,
				Cause:     errors.Join(domain.ErrKernelPanic, fmt.Errorf("%v", r)),
			}
		}
	}()
	return s.tess.Tessellate(acc.Compound, maxDeviation, acc.EdgeIndex, acc.FaceIndex)
}

// Stats returns the cache counters.
func (s *Session) Stats() domain.CacheStats {
	return s.cache.Stats()
}

// recordLogs copies lines printed by user code onto span when it accepts text.
func recordLogs(span ports.Span, notify modeling.Notifier) modeling.Notifier {
	w, ok := span.(io.Writer)
	if !ok {
		return notify
	}
	return func(msgType string, payload any) {
		if p, ok := payload.(domain.LogPayload); ok && msgType == domain.MsgLog {
			_, _ = io.WriteString(w, p.Message+"\n")
		}
		notify(msgType, payload)
	}
}
