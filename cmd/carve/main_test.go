package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/adapters/refkernel"
	"go.trai.ch/carve/internal/adapters/telemetry"
	"go.trai.ch/carve/internal/app"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports/mocks"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.uber.org/mock/gomock"
)

func newApp(t *testing.T, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) ComponentProvider {
	t.Helper()
	ctrl := gomock.NewController(t)
	kernel := refkernel.New()
	application := app.New(
		loader,
		logger,
		mocks.NewMockDaemonConnector(ctrl),
		mocks.NewMockExporter(ctrl),
		mocks.NewMockWatcher(ctrl),
		kernel,
		kernel,
		telemetry.NewOTelTracer(telemetry.InstrumentationName),
		telemetry.NewBridge(opcache.SpanKind),
	).WithOutput(new(bytes.Buffer), new(bytes.Buffer))

	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newApp(t, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that command errors are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var logged error
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err })

	provider := newApp(t, mocks.NewMockConfigLoader(ctrl), logger)
	missing := filepath.Join(t.TempDir(), "missing.carve")

	exitCode := run(context.Background(), []string{"eval", missing, "--ci"}, new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
	require.Error(t, logged)
	assert.ErrorIs(t, logged, domain.ErrScriptReadFailed)
}

// TestRun_EvaluationFailed verifies that a failing script exits with 1 without
// logging the error a second time.
func TestRun_EvaluationFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).Times(0)

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.carve")
	require.NoError(t, os.WriteFile(path, []byte("Sphere(-1)"), domain.FilePerm))
	loader.EXPECT().Load(dir).Return(domain.DefaultConfig(), nil)

	provider := newApp(t, loader, logger)
	exitCode := run(context.Background(), []string{"eval", path, "--ci"}, new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_BadLogFormat verifies that an unknown --log-format is rejected.
func TestRun_BadLogFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var logged error
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err })

	provider := newApp(t, mocks.NewMockConfigLoader(ctrl), logger)
	exitCode := run(context.Background(), []string{"--log-format", "xml", "version"}, new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
	assert.ErrorIs(t, logged, domain.ErrUnknownLogFormat)
}
