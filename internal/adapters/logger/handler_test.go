package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/adapters/logger"
)

func newPretty(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, ""},
		{slog.LevelInfo, "cache hit\n"},
		{slog.LevelWarn, "! cache hit\n"},
		{slog.LevelError, "✗ cache hit\n"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			h, buf := newPretty(t, slog.LevelInfo)
			slog.New(h).Log(t.Context(), tt.level, "cache hit")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name  string
		setup func(slog.Handler) slog.Handler
		args  []any
		want  string
	}{
		{
			name: "record attrs",
			args: []any{"op", "Box", "hits", 3, "cached", true},
			want: "evaluated op=Box hits=3 cached=true\n",
		},
		{
			name: "handler attrs come first",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("session", "s1")})
			},
			args: []any{"op", "Box"},
			want: "evaluated session=s1 op=Box\n",
		},
		{
			name: "group flattening",
			args: []any{slog.Group("bounds", slog.Int("min", -1), slog.Int("max", 1))},
			want: "evaluated bounds.min=-1 bounds.max=1\n",
		},
		{
			name: "nested groups join",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("worker").WithGroup("cache")
			},
			args: []any{"size", 12},
			want: "evaluated worker.cache.size=12\n",
		},
		{
			name: "attrs keep the group active when added",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("pid", "7")}).WithGroup("req")
			},
			args: []any{"id", "9"},
			want: "evaluated pid=7 req.id=9\n",
		},
		{
			name: "empty group is ignored",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("")
			},
			args: []any{"k", "v"},
			want: "evaluated k=v\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, buf := newPretty(t, slog.LevelInfo)
			var h slog.Handler = base
			if tt.setup != nil {
				h = tt.setup(h)
			}
			slog.New(h).Info("evaluated", tt.args...)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h, _ := newPretty(t, slog.LevelWarn)

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, nil)
	})
}

func TestPrettyHandler_WriteError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := logger.NewPrettyHandler(brokenWriter{}, nil)

	var r slog.Record
	r.Message = "lost"
	r.Level = slog.LevelInfo
	assert.ErrorIs(t, h.Handle(t.Context(), r), assert.AnError)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}
