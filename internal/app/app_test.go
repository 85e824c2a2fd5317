package app_test

import (
	"bytes"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/adapters/refkernel"
	"go.trai.ch/carve/internal/adapters/telemetry"
	"go.trai.ch/carve/internal/app"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/core/ports/mocks"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.trai.ch/carve/internal/engine/session"
	"go.trai.ch/carve/internal/protocol"
	"go.uber.org/mock/gomock"
)

// logLines records Info lines and signals each one.
type logLines struct {
	mu    sync.Mutex
	lines []string
	seen  chan string
}

func (l *logLines) add(msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, msg)
	l.mu.Unlock()
	select {
	case l.seen <- msg:
	default:
	}
}

func (l *logLines) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

// waitFor blocks until a line containing substr is logged.
func (l *logLines) waitFor(t *testing.T, substr string) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case msg := <-l.seen:
			if strings.Contains(msg, substr) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q, got:\n%s", substr, l.String())
		}
	}
}

type harness struct {
	app       *app.App
	loader    *mocks.MockConfigLoader
	logger    *mocks.MockLogger
	connector *mocks.MockDaemonConnector
	exporter  *mocks.MockExporter
	watcher   *mocks.MockWatcher
	logs      *logLines
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	dir       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		loader:    mocks.NewMockConfigLoader(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		connector: mocks.NewMockDaemonConnector(ctrl),
		exporter:  mocks.NewMockExporter(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		logs:      &logLines{seen: make(chan string, 64)},
		stdout:    new(bytes.Buffer),
		stderr:    new(bytes.Buffer),
		dir:       t.TempDir(),
	}
	h.logger.EXPECT().Info(gomock.Any()).Do(h.logs.add).AnyTimes()
	h.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	kernel := refkernel.New()
	h.app = app.New(
		h.loader, h.logger, h.connector, h.exporter, h.watcher,
		kernel, kernel,
		telemetry.NewOTelTracer(telemetry.InstrumentationName),
		telemetry.NewBridge(opcache.SpanKind),
	).WithOutput(h.stdout, h.stderr)
	return h
}

func (h *harness) script(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(h.dir, "model.carve")
	require.NoError(t, os.WriteFile(path, []byte(code), domain.FilePerm))
	return path
}

func (h *harness) defaults() *domain.Config {
	cfg := domain.DefaultConfig()
	h.loader.EXPECT().Load(h.dir).Return(cfg, nil).AnyTimes()
	return cfg
}

func TestApp_Eval(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Print(\"hello\")\nBox(1, 2, 3)")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear"})
	require.NoError(t, err)

	assert.Equal(t, "hello\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Evaluating model.carve")
	assert.Contains(t, h.stderr.String(), "#1 Box")
	assert.Contains(t, h.logs.String(), "model.carve: 1 operations, 1 shapes")
	assert.Contains(t, h.logs.String(), "cache: 1 entries, 0 hits, 1 misses, 0 evicted")
}

func TestApp_Eval_Failure(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)\nSphere(-1)")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrEvaluationFailed)

	var evalErr *domain.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Sphere", evalErr.Operation)
	assert.Equal(t, 2, evalErr.Line)

	assert.Contains(t, h.stderr.String(), "#2 Sphere")
	assert.Contains(t, h.stderr.String(), "model.carve failed after")
	assert.NotContains(t, h.logs.String(), "operations", "no summary for a failed run")
}

func TestApp_Eval_Export(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)")
	out := filepath.Join(h.dir, "part.obj")

	h.exporter.EXPECT().WriteFile(out, gomock.Any(), "obj").DoAndReturn(
		func(_ string, mesh domain.Mesh, _ string) error {
			assert.Equal(t, 12, mesh.TriangleCount())
			return nil
		},
	)

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear", Out: out})
	require.NoError(t, err)
	assert.Contains(t, h.logs.String(), "wrote "+out+" (obj)")
}

func TestApp_Eval_ExportFormatFromConfig(t *testing.T) {
	h := newHarness(t)
	cfg := h.defaults()
	cfg.ExportFormat = "json"
	path := h.script(t, "Box(1, 1, 1)")
	out := filepath.Join(h.dir, "part")

	h.exporter.EXPECT().WriteFile(out, gomock.Any(), "json").Return(nil)

	require.NoError(t, h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear", Out: out}))
}

func TestApp_Eval_UnknownExportFormat(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{
		OutputMode: "linear",
		Out:        filepath.Join(h.dir, "part.step"),
	})
	require.ErrorIs(t, err, domain.ErrUnknownExportFormat)
}

func TestApp_Eval_Overrides(t *testing.T) {
	h := newHarness(t)
	cfg := h.defaults()
	cfg.GUI = domain.GUIState{"Label": "from config"}
	path := h.script(t, "Print(Slider(\"R\", 1, 0, 10))\nPrint(TextInput(\"Label\", \"default\"))")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear", Set: []string{"R=4"}})
	require.NoError(t, err)

	assert.Equal(t, "4\nfrom config\n", h.stdout.String())
	assert.Contains(t, h.logs.String(), "controls: R, Label")
}

func TestApp_Eval_NoCache(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear", NoCache: true})
	require.NoError(t, err)
	assert.Contains(t, h.logs.String(), "cache: 0 entries")
}

func TestApp_Eval_ScriptMissing(t *testing.T) {
	h := newHarness(t)

	err := h.app.Eval(context.Background(), filepath.Join(h.dir, "missing.carve"), app.EvalOptions{})
	require.ErrorIs(t, err, domain.ErrScriptReadFailed)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApp_Eval_BadOutputMode(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)")

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "fancy"})
	require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func TestApp_Eval_TUI(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Box(1, 1, 1)")

	h.app.WithDisableTick().WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "tui"})
	require.NoError(t, err)
	assert.Contains(t, h.logs.String(), "model.carve: 1 operations")
}

func TestApp_Eval_Daemon(t *testing.T) {
	h := newHarness(t)
	cfg := h.defaults()
	path := h.script(t, "Box(2, 2, 2)")

	ctrl := gomock.NewController(t)
	client := mocks.NewMockDaemonClient(ctrl)

	host, conn := protocol.Pipe()
	kernel := refkernel.New()
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName)
	worker := protocol.NewWorker(kernel, session.New(kernel, kernel, tracer, h.logger), nil, h.logger)
	done := make(chan error, 1)
	go func() { done <- worker.Serve(context.Background(), conn) }()

	h.connector.EXPECT().Connect(gomock.Any(), cfg.SocketPath).Return(client, nil)
	client.EXPECT().Open(gomock.Any()).Return(host, nil)
	client.EXPECT().Close().Return(nil)

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear", Daemon: true})
	require.NoError(t, err)
	require.NoError(t, <-done, "the session ends with a shutdown request")
	assert.Contains(t, h.logs.String(), "model.carve: 1 operations, 1 shapes")
}

func TestApp_Eval_DaemonUnavailable(t *testing.T) {
	h := newHarness(t)
	cfg := h.defaults()
	cfg.WorkerMode = domain.WorkerDaemon
	path := h.script(t, "Box(2, 2, 2)")

	h.connector.EXPECT().Connect(gomock.Any(), cfg.SocketPath).Return(nil, domain.ErrDaemonSpawnFailed)

	err := h.app.Eval(context.Background(), path, app.EvalOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrDaemonSpawnFailed)
}

// chanWatcher yields events pushed on a channel.
func chanWatcher(h *harness, events chan ports.WatchEvent) {
	var once sync.Once
	h.watcher.EXPECT().Start(gomock.Any(), h.dir).Return(nil)
	h.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	h.watcher.EXPECT().Stop().DoAndReturn(func() error {
		once.Do(func() { close(events) })
		return nil
	})
}

func TestApp_Watch(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Print(\"first\")\nBox(1, 1, 1)")

	events := make(chan ports.WatchEvent, 8)
	chanWatcher(h, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- h.app.Watch(ctx, path, app.EvalOptions{OutputMode: "linear"}) }()

	h.logs.waitFor(t, "watching model.carve")

	// Unrelated files are ignored.
	events <- ports.WatchEvent{Path: filepath.Join(h.dir, "notes.txt"), Operation: ports.OpWrite}

	require.NoError(t, os.WriteFile(path, []byte("Print(\"second\")\nBox(1, 1, 1)\nSphere(1)"), domain.FilePerm))
	events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}

	h.logs.waitFor(t, "watching model.carve")
	cancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, "first\nsecond\n", h.stdout.String())
	assert.Equal(t, 2, strings.Count(h.stderr.String(), "Evaluating model.carve"))
	assert.Contains(t, h.logs.String(), "2 operations, 2 shapes")
	assert.Contains(t, h.logs.String(), "1 hits", "the unchanged box is served from the cache")
}

func TestApp_Watch_SurvivesFailure(t *testing.T) {
	h := newHarness(t)
	h.defaults()
	path := h.script(t, "Sphere(-1)")

	events := make(chan ports.WatchEvent, 8)
	chanWatcher(h, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- h.app.Watch(ctx, path, app.EvalOptions{OutputMode: "linear"}) }()

	h.logs.waitFor(t, "watching model.carve")
	require.NoError(t, os.WriteFile(path, []byte("Sphere(1)"), domain.FilePerm))
	events <- ports.WatchEvent{Path: path, Operation: ports.OpCreate}

	h.logs.waitFor(t, "1 operations, 1 shapes")
	cancel()
	require.NoError(t, <-errCh)
	assert.Contains(t, h.stderr.String(), "model.carve failed after")
}

func TestApp_Status(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockDaemonClient(ctrl)
	socket := filepath.Join(h.dir, "worker.sock")

	h.connector.EXPECT().IsRunning(socket).Return(true)
	h.connector.EXPECT().Dial(socket).Return(client, nil)
	client.EXPECT().Status(gomock.Any()).Return(&ports.DaemonStatus{
		Running:       true,
		PID:           4242,
		Uptime:        90 * time.Second,
		LastActivity:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		IdleRemaining: 29 * time.Minute,
	}, nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Status(context.Background(), socket))
	assert.Contains(t, h.logs.String(), "worker daemon running (pid 4242)")
	assert.Contains(t, h.logs.String(), "uptime: 1m30s")
	assert.Contains(t, h.logs.String(), "idle shutdown in: 29m0s")
}

func TestApp_Status_SessionOpen(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockDaemonClient(ctrl)
	socket := filepath.Join(h.dir, "worker.sock")

	h.connector.EXPECT().IsRunning(socket).Return(true)
	h.connector.EXPECT().Dial(socket).Return(client, nil)
	client.EXPECT().Status(gomock.Any()).Return(&ports.DaemonStatus{
		Running:       true,
		PID:           4242,
		IdleRemaining: 30 * time.Minute,
		Sessions:      2,
	}, nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Status(context.Background(), socket))
	assert.Contains(t, h.logs.String(), "idle shutdown paused: 2 open session(s)")
	assert.NotContains(t, h.logs.String(), "idle shutdown in")
}

func TestApp_Status_NotRunning(t *testing.T) {
	h := newHarness(t)
	cfg := domain.DefaultConfig()
	h.loader.EXPECT().Load(".").Return(cfg, nil)
	h.connector.EXPECT().IsRunning(cfg.SocketPath).Return(false)

	require.NoError(t, h.app.Status(context.Background(), ""))
	assert.Equal(t, "worker daemon is not running", h.logs.String())
}

func TestApp_Stop(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockDaemonClient(ctrl)
	socket := filepath.Join(h.dir, "worker.sock")

	h.connector.EXPECT().IsRunning(socket).Return(true)
	h.connector.EXPECT().Dial(socket).Return(client, nil)
	client.EXPECT().Shutdown(gomock.Any()).Return(nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Stop(context.Background(), socket))
	assert.Contains(t, h.logs.String(), "worker daemon stopped")
}

func TestApp_Serve(t *testing.T) {
	h := newHarness(t)
	socket := filepath.Join(t.TempDir(), "w.sock")
	h.loader.EXPECT().Load(".").Return(domain.DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.app.Serve(ctx, app.ServeOptions{Socket: socket, IdleTimeout: time.Minute}) }()

	h.logs.waitFor(t, "worker daemon listening on "+socket)
	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
}
