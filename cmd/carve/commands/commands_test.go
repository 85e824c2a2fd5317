package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/cmd/carve/commands"
	"go.trai.ch/carve/internal/app"
	"go.trai.ch/carve/internal/build"
)

type mockApp struct {
	evalFunc  func(ctx context.Context, script string, opts app.EvalOptions) error
	watchFunc func(ctx context.Context, script string, opts app.EvalOptions) error
	serveOpts *app.ServeOptions
	statusArg *string
	stopArg   *string
	logFormat string
	formatErr error
}

func (m *mockApp) Eval(ctx context.Context, script string, opts app.EvalOptions) error {
	if m.evalFunc != nil {
		return m.evalFunc(ctx, script, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, script string, opts app.EvalOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, script, opts)
	}
	return nil
}

func (m *mockApp) Serve(_ context.Context, opts app.ServeOptions) error {
	m.serveOpts = &opts
	return nil
}

func (m *mockApp) Status(_ context.Context, socket string) error {
	m.statusArg = &socket
	return nil
}

func (m *mockApp) Stop(_ context.Context, socket string) error {
	m.stopArg = &socket
	return nil
}

func (m *mockApp) SetLogFormat(format string) error {
	m.logFormat = format
	return m.formatErr
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Eval(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.EvalOptions
		var script string
		m := &mockApp{
			evalFunc: func(_ context.Context, s string, opts app.EvalOptions) error {
				script = s
				captured = opts
				return nil
			},
		}

		_, err := execute(t, m, "eval", "part.carve",
			"--no-cache", "--daemon", "--stats",
			"--set", "R=4", "--set", "Label=lid",
			"--out", "part.stl", "--format", "obj", "-o", "tui")
		require.NoError(t, err)

		assert.Equal(t, "part.carve", script)
		assert.True(t, captured.NoCache)
		assert.True(t, captured.Daemon)
		assert.True(t, captured.Stats)
		assert.Equal(t, []string{"R=4", "Label=lid"}, captured.Set)
		assert.Equal(t, "part.stl", captured.Out)
		assert.Equal(t, "obj", captured.Format)
		assert.Equal(t, "tui", captured.OutputMode)
	})

	t.Run("ci selects linear output", func(t *testing.T) {
		var captured app.EvalOptions
		m := &mockApp{
			evalFunc: func(_ context.Context, _ string, opts app.EvalOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, m, "eval", "part.carve", "--ci")
		require.NoError(t, err)
		assert.Equal(t, "linear", captured.OutputMode)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.EvalOptions
		m := &mockApp{
			evalFunc: func(_ context.Context, _ string, opts app.EvalOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, m, "eval", "part.carve")
		require.NoError(t, err)
		assert.Equal(t, "auto", captured.OutputMode)
		assert.False(t, captured.NoCache)
		assert.False(t, captured.Daemon)
		assert.Empty(t, captured.Set)
		assert.Empty(t, captured.Out)
		assert.Equal(t, "pretty", m.logFormat)
	})

	t.Run("returns error on eval failure", func(t *testing.T) {
		m := &mockApp{
			evalFunc: func(_ context.Context, _ string, _ app.EvalOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, m, "eval", "part.carve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("requires a script", func(t *testing.T) {
		m := &mockApp{
			evalFunc: func(_ context.Context, _ string, _ app.EvalOptions) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, m, "eval")
		require.Error(t, err)
	})
}

func TestCommands_Watch(t *testing.T) {
	var script string
	var captured app.EvalOptions
	m := &mockApp{
		watchFunc: func(_ context.Context, s string, opts app.EvalOptions) error {
			script = s
			captured = opts
			return nil
		},
	}

	_, err := execute(t, m, "watch", "part.carve", "-n", "--out", "part.obj")
	require.NoError(t, err)
	assert.Equal(t, "part.carve", script)
	assert.True(t, captured.NoCache)
	assert.Equal(t, "part.obj", captured.Out)
}

func TestCommands_LogFormat(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "--log-format", "json", "eval", "part.carve")
	require.NoError(t, err)
	assert.Equal(t, "json", m.logFormat)

	m = &mockApp{
		formatErr: errors.New("bad format"),
		evalFunc: func(_ context.Context, _ string, _ app.EvalOptions) error {
			panic("should not be called")
		},
	}
	_, err = execute(t, m, "--log-format", "xml", "eval", "part.carve")
	require.EqualError(t, err, "bad format")
}

func TestCommands_Worker(t *testing.T) {
	t.Run("serve", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "serve", "--socket", "/tmp/w.sock", "--idle-timeout", "90s")
		require.NoError(t, err)
		require.NotNil(t, m.serveOpts)
		assert.Equal(t, app.ServeOptions{Socket: "/tmp/w.sock", IdleTimeout: 90 * time.Second}, *m.serveOpts)
	})

	t.Run("status", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "status")
		require.NoError(t, err)
		require.NotNil(t, m.statusArg)
		assert.Empty(t, *m.statusArg)
	})

	t.Run("stop", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "stop", "--socket", "/tmp/w.sock")
		require.NoError(t, err)
		require.NotNil(t, m.stopArg)
		assert.Equal(t, "/tmp/w.sock", *m.stopArg)
	})

	t.Run("serve is hidden", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "worker", "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "status")
		assert.NotContains(t, out, "serve")
	})
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "carve version "+build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit: "+build.Commit)
}
