// Package app implements the application layer for carve.
package app

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/carve/internal/adapters/detector"
	"go.trai.ch/carve/internal/adapters/linear"
	"go.trai.ch/carve/internal/adapters/telemetry"
	"go.trai.ch/carve/internal/adapters/tui"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	connector    ports.DaemonConnector
	exporter     ports.Exporter
	watcher      ports.Watcher
	kernel       ports.Kernel
	tess         ports.Tessellator
	tracer       ports.Tracer
	bridge       *telemetry.Bridge
	stdout       io.Writer
	stderr       io.Writer
	teaOptions   []tea.ProgramOption
	disableTick  bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	connector ports.DaemonConnector,
	exporter ports.Exporter,
	watcher ports.Watcher,
	kernel ports.Kernel,
	tess ports.Tessellator,
	tracer ports.Tracer,
	bridge *telemetry.Bridge,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		connector:    connector,
		exporter:     exporter,
		watcher:      watcher,
		kernel:       kernel,
		tess:         tess,
		tracer:       tracer,
		bridge:       bridge,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI tick loop.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// WithOutput redirects the streams renderers write to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// SetLogFormat switches the logger between "pretty" and "json" output.
func (a *App) SetLogFormat(format string) error {
	var jsonMode bool
	switch format {
	case "", "pretty":
	case "json":
		jsonMode = true
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownLogFormat, "invalid --log-format"), "value", format)
	}
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(jsonMode)
	}
	return nil
}

// newRenderer picks the TUI on an interactive terminal and linear output
// otherwise. The second result reports whether the TUI was chosen.
func (a *App) newRenderer(ctx context.Context, outputMode string) (ports.Renderer, bool, error) {
	requested, err := detector.ParseMode(outputMode)
	if err != nil {
		return nil, false, err
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(), requested)
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(&model, optsTea...), true, nil
	}
	return linear.NewRenderer(a.stdout, a.stderr), false, nil
}

// setupOTel registers a global tracer provider whose spans feed the timing bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

// paneLogger sends worker diagnostics into the TUI output pane so they do not
// tear the frame being drawn on the terminal.
type paneLogger struct {
	renderer ports.Renderer
}

func (l paneLogger) Info(msg string) { l.renderer.OnLog(msg) }

func (l paneLogger) Warn(msg string) { l.renderer.OnLog("warning: " + msg) }

func (l paneLogger) Error(err error) {
	if err != nil {
		l.renderer.OnLog("error: " + err.Error())
	}
}
