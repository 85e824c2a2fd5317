package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/carve/internal/adapters/export"  //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/protocol"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// EvalOptions configuration for the Eval and Watch methods.
type EvalOptions struct {
	NoCache    bool
	Daemon     bool
	Set        []string
	Out        string
	Format     string
	OutputMode string
	Stats      bool
}

// job is a script with its configuration resolved.
type job struct {
	script  string
	code    string
	cfg     *domain.Config
	gui     domain.GUIState
	noCache bool
	out     string
	format  string
}

// outcome is what a successful evaluation produced.
type outcome struct {
	result   domain.EvaluateResult
	render   domain.RenderResult
	stats    domain.StatsResult
	controls []string
}

// Eval evaluates the script once, renders the resulting scene and exports it
// when an output file is requested.
func (a *App) Eval(ctx context.Context, scriptPath string, opts EvalOptions) error {
	j, err := a.loadJob(scriptPath, opts)
	if err != nil {
		return err
	}

	renderer, interactive, err := a.newRenderer(ctx, opts.OutputMode)
	if err != nil {
		return err
	}

	setupOTel(a.bridge)

	conn, closeWorker, err := a.openWorker(ctx, j.cfg, opts.Daemon, a.workerLogger(renderer, interactive))
	if err != nil {
		return err
	}
	defer closeWorker()

	var out *outcome
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() { _ = renderer.Stop() }()

		if err := protocol.AwaitReady(gctx, conn, nil); err != nil {
			return errors.Join(domain.ErrWorkerNotReady, err)
		}
		res, err := a.evaluate(gctx, conn, j, renderer)
		if err != nil {
			return err
		}
		out = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.report(j, out, opts.Stats, a.logger)
	return a.export(j, out, a.logger)
}

// Watch evaluates the script and evaluates it again through the same worker
// every time the script or its configuration is saved, until ctx ends or the
// TUI is closed.
//
//nolint:cyclop // orchestration function
func (a *App) Watch(ctx context.Context, scriptPath string, opts EvalOptions) error {
	j, err := a.loadJob(scriptPath, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer, interactive, err := a.newRenderer(ctx, opts.OutputMode)
	if err != nil {
		return err
	}
	log := a.workerLogger(renderer, interactive)

	setupOTel(a.bridge)

	conn, closeWorker, err := a.openWorker(ctx, j.cfg, opts.Daemon, log)
	if err != nil {
		return err
	}
	defer closeWorker()

	saved, stopWatching, err := a.watchJob(ctx, j)
	if err != nil {
		return err
	}
	defer stopWatching()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if interactive {
			// Quitting the TUI ends the session.
			defer cancel()
		}
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		err := renderer.Wait()
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		defer func() { _ = renderer.Stop() }()

		if err := protocol.AwaitReady(gctx, conn, nil); err != nil {
			return errors.Join(domain.ErrWorkerNotReady, err)
		}

		for {
			if err := a.watchRun(gctx, conn, j, renderer, opts.Stats, log); err != nil {
				return err
			}
			log.Info(fmt.Sprintf("watching %s for changes", filepath.Base(j.script)))

			next, ok := a.awaitSave(gctx, saved, j.script, opts, log)
			if !ok {
				return nil
			}
			j = next
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// awaitSave blocks until a save produces a job that loads. It reports false
// when ctx ends first.
func (a *App) awaitSave(
	ctx context.Context,
	saved <-chan struct{},
	script string,
	opts EvalOptions,
	log ports.Logger,
) (*job, bool) {
	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-saved:
		}
		j, err := a.loadJob(script, opts)
		if err != nil {
			log.Error(err)
			continue
		}
		return j, true
	}
}

// watchRun evaluates once. Failures of user code are shown and tolerated;
// only a broken worker connection ends the watch.
func (a *App) watchRun(
	ctx context.Context,
	conn ports.Conn,
	j *job,
	renderer ports.Renderer,
	withTimings bool,
	log ports.Logger,
) error {
	out, err := a.evaluate(ctx, conn, j, renderer)
	if errors.Is(err, domain.ErrEvaluationFailed) {
		return nil
	}
	if err != nil {
		return err
	}

	a.report(j, out, withTimings, log)
	if err := a.export(j, out, log); err != nil {
		log.Error(err)
	}
	return nil
}

// watchJob signals on the returned channel whenever the script or its config
// file is saved. Bursts of events are coalesced.
func (a *App) watchJob(ctx context.Context, j *job) (<-chan struct{}, func(), error) {
	root := filepath.Dir(j.script)
	if j.cfg.Path != "" {
		root = filepath.Dir(j.cfg.Path)
	}
	if err := a.watcher.Start(ctx, root); err != nil {
		return nil, nil, zerr.Wrap(err, "failed to start watcher")
	}

	saved := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		select {
		case saved <- struct{}{}:
		default:
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			if j.watches(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	return saved, func() {
		debouncer.Stop()
		_ = a.watcher.Stop()
	}, nil
}

func (j *job) watches(path string) bool {
	path = filepath.Clean(path)
	return path == j.script || (j.cfg.Path != "" && path == j.cfg.Path)
}

// loadJob reads the script and resolves its configuration and flags.
func (a *App) loadJob(scriptPath string, opts EvalOptions) (*job, error) {
	script, err := filepath.Abs(scriptPath)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrScriptReadFailed, err), "path", scriptPath)
	}
	code, err := os.ReadFile(script)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrScriptReadFailed, err), "path", script)
	}

	cfg, err := a.configLoader.Load(filepath.Dir(script))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	overrides, err := ParseOverrides(opts.Set)
	if err != nil {
		return nil, err
	}
	gui := cfg.GUI.Clone()
	maps.Copy(gui, overrides)

	j := &job{
		script:  script,
		code:    string(code),
		cfg:     cfg,
		gui:     gui,
		noCache: opts.NoCache || !cfg.CacheEnabled,
		out:     opts.Out,
	}

	if opts.Out != "" {
		explicit := opts.Format
		if explicit == "" && filepath.Ext(opts.Out) == "" {
			explicit = cfg.ExportFormat
		}
		j.format, err = export.ResolveFormat(opts.Out, explicit)
		if err != nil {
			return nil, err
		}
	}
	return j, nil
}

// evaluate runs j on the worker, then fetches the tessellated scene and the
// worker statistics. Failed evaluations are reported to the renderer and
// returned joined with domain.ErrEvaluationFailed.
func (a *App) evaluate(ctx context.Context, conn ports.Conn, j *job, renderer ports.Renderer) (*outcome, error) {
	renderer.OnEvaluationStart(j.script, time.Now())
	t := &tracker{renderer: renderer}

	msg, err := protocol.Call(ctx, conn, domain.MsgEvaluate, domain.EvaluatePayload{
		Code:     j.code,
		GUIState: j.gui,
		NoCache:  j.noCache,
	}, t.handle)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, zerr.Wrap(err, "evaluate request failed")
	}
	res, err := protocol.Decode[domain.EvaluateResult](msg.Payload)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, err
	}

	if !res.Succeeded {
		if t.failure == nil {
			renderer.OnEvaluationComplete(time.Now(), domain.ErrEvaluationFailed)
			return nil, domain.ErrEvaluationFailed
		}
		renderer.OnEvaluationComplete(time.Now(), t.failure)
		return nil, errors.Join(domain.ErrEvaluationFailed, t.failure)
	}

	msg, err = protocol.Request(ctx, conn, domain.MsgCombineAndRender,
		domain.RenderRequest{MaxDeviation: j.cfg.MaxDeviation}, t.handle)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, errors.Join(domain.ErrEvaluationFailed, err)
	}
	render, err := protocol.Decode[domain.RenderResult](msg.Payload)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, err
	}

	msg, err = protocol.Call(ctx, conn, domain.MsgStats, nil, t.handle)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, zerr.Wrap(err, "stats request failed")
	}
	stats, err := protocol.Decode[domain.StatsResult](msg.Payload)
	if err != nil {
		renderer.OnEvaluationComplete(time.Now(), err)
		return nil, err
	}

	t.finish(time.Now())
	renderer.OnEvaluationComplete(time.Now(), nil)

	return &outcome{result: res, render: render, stats: stats, controls: t.controls}, nil
}

func (a *App) report(j *job, out *outcome, withTimings bool, log ports.Logger) {
	res, render := out.result, out.render
	log.Info(fmt.Sprintf("%s: %d operations, %d shapes, %d triangles (%d faces, %d edges)",
		filepath.Base(j.script), res.Operations, res.Shapes, render.TriangleCount(), render.FaceCount, render.EdgeCount))

	c := out.stats.Cache
	log.Info(fmt.Sprintf("cache: %d entries, %d hits, %d misses, %d evicted",
		c.Entries, c.Hits, c.Misses, res.Evicted))

	if len(out.controls) > 0 {
		log.Info("controls: " + strings.Join(out.controls, ", "))
	}

	if withTimings {
		for _, kind := range slices.Sorted(maps.Keys(out.stats.Timings)) {
			t := out.stats.Timings[kind]
			log.Info(fmt.Sprintf("  %s: %d calls, %.2fms, %d failed", kind, t.Count, t.TotalMillis, t.Failures))
		}
	}
}

func (a *App) export(j *job, out *outcome, log ports.Logger) error {
	if j.out == "" {
		return nil
	}
	if err := a.exporter.WriteFile(j.out, out.render.Mesh, j.format); err != nil {
		return err
	}
	log.Info(fmt.Sprintf("wrote %s (%s)", j.out, j.format))
	return nil
}

// workerLogger keeps worker diagnostics inside the TUI while it owns the terminal.
func (a *App) workerLogger(renderer ports.Renderer, interactive bool) ports.Logger {
	if interactive {
		return paneLogger{renderer: renderer}
	}
	return a.logger
}

// tracker turns worker notifications into renderer events.
type tracker struct {
	renderer ports.Renderer
	current  int
	failure  *domain.EvalError
	controls []string
}

type controlPayload struct {
	Name string `json:"name"`
}

func (t *tracker) handle(msg domain.Message) {
	now := time.Now()

	switch msg.Type {
	case domain.MsgProgress:
		p, err := protocol.Decode[domain.ProgressPayload](msg.Payload)
		if err != nil {
			return
		}
		t.finish(now)
		if p.OpType != "" {
			t.current = p.OpNumber
			t.renderer.OnOpStart(p.OpNumber, p.OpType, now)
		}

	case domain.MsgLog:
		if p, err := protocol.Decode[domain.LogPayload](msg.Payload); err == nil {
			t.renderer.OnLog(p.Message)
		}

	case domain.MsgError:
		if p, err := protocol.Decode[domain.ErrorPayload](msg.Payload); err == nil {
			t.failure = p.Err()
		}

	case domain.MsgAddSlider, domain.MsgAddCheckbox, domain.MsgAddTextbox,
		domain.MsgAddDropdown, domain.MsgAddButton:
		p, err := protocol.Decode[controlPayload](msg.Payload)
		if err == nil && p.Name != "" && !slices.Contains(t.controls, p.Name) {
			t.controls = append(t.controls, p.Name)
		}
	}
}

// finish completes the running operation. A failing operation never reports
// its end and stays open for the renderer to mark as failed.
func (t *tracker) finish(now time.Time) {
	if t.current != 0 {
		t.renderer.OnOpComplete(t.current, now)
		t.current = 0
	}
}
