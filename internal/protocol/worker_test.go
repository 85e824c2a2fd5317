package protocol_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/core/ports/mocks"
	"go.trai.ch/carve/internal/engine/session"
	"go.trai.ch/carve/internal/protocol"
	"go.uber.org/mock/gomock"
)

type fixedTimings map[string]domain.OpTiming

func (f fixedTimings) Timings() map[string]domain.OpTiming { return f }

type workerHarness struct {
	kernel *mocks.MockKernel
	tess   *mocks.MockTessellator
	host   ports.Conn
	done   chan error
}

func startWorker(t *testing.T) *workerHarness {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	h := &workerHarness{
		kernel: mocks.NewMockKernel(ctrl),
		tess:   mocks.NewMockTessellator(ctrl),
		done:   make(chan error, 1),
	}
	h.kernel.EXPECT().Init(gomock.Any()).Return(nil)

	sess := session.New(h.kernel, h.tess, tracer, logger)
	w := protocol.NewWorker(h.kernel, sess, fixedTimings{"Box": {Count: 1, TotalMillis: 2}}, logger)

	var conn ports.Conn
	h.host, conn = protocol.Pipe()
	go func() { h.done <- w.Serve(context.Background(), conn) }()
	t.Cleanup(func() { _ = h.host.Close() })
	return h
}

func (h *workerHarness) recv(t *testing.T) domain.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := h.host.Recv(ctx)
	require.NoError(t, err)
	return msg
}

func (h *workerHarness) send(t *testing.T, msgType string, payload any) {
	t.Helper()
	require.NoError(t, h.host.Send(context.Background(), domain.Message{Type: msgType, Payload: payload}))
}

func (h *workerHarness) cube() {
	h.kernel.EXPECT().Explore(gomock.Any()).Return(domain.Topology{
		Kind:   domain.KindSolid,
		Solids: 1,
		Edges:  []domain.Edge{{Start: domain.Vec3{0, 0, 0}, End: domain.Vec3{1, 0, 0}}},
		Faces:  []domain.Face{{Loop: []domain.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}},
	}, nil).AnyTimes()
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.CompoundOp{})).Return(domain.Handle(50), nil).AnyTimes()
}

func TestWorker_StartupFirst(t *testing.T) {
	h := startWorker(t)
	assert.Equal(t, domain.Message{Type: domain.MsgStartup}, h.recv(t))
}

func TestWorker_EvaluateAndRender(t *testing.T) {
	h := startWorker(t)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 2, Z: 3}).Return(domain.Handle(1), nil)
	h.cube()
	h.tess.EXPECT().Tessellate(gomock.Any(), 0.25, gomock.Len(1), gomock.Len(1)).Return(domain.Mesh{
		Faces: []domain.FaceMesh{{Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, Triangles: []int{0, 1, 2}}},
	}, nil)

	require.Equal(t, domain.MsgStartup, h.recv(t).Type)
	h.send(t, domain.MsgEvaluate, domain.EvaluatePayload{Code: "Box(1, 2, 3)"})

	var types []string
	var echo domain.Message
	for {
		msg := h.recv(t)
		if msg.Type == domain.MsgEvaluate {
			echo = msg
			break
		}
		types = append(types, msg.Type)
	}
	assert.Equal(t, []string{domain.MsgProgress, domain.MsgProgress, domain.MsgResetWorking}, types)

	res, err := protocol.Decode[domain.EvaluateResult](echo.Payload)
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 1, res.Operations)
	assert.Equal(t, 1, res.Shapes)

	h.send(t, domain.MsgCombineAndRender, domain.RenderRequest{MaxDeviation: 0.25})
	render := h.recv(t)
	require.Equal(t, domain.MsgCombineAndRender, render.Type)
	out, err := protocol.Decode[domain.RenderResult](render.Payload)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TriangleCount())
	assert.Equal(t, 1, out.EdgeCount)

	// A second render has nothing new and echoes nothing; the stats echo is next.
	h.send(t, domain.MsgCombineAndRender, domain.RenderRequest{MaxDeviation: 0.25})
	h.send(t, domain.MsgStats, nil)
	stats := h.recv(t)
	require.Equal(t, domain.MsgStats, stats.Type)
	got, err := protocol.Decode[domain.StatsResult](stats.Payload)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheStats{Entries: 1, Misses: 1}, got.Cache)
	assert.Equal(t, domain.OpTiming{Count: 1, TotalMillis: 2}, got.Timings["Box"])
}

func TestWorker_EvaluateFailure(t *testing.T) {
	h := startWorker(t)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: -1}).Return(domain.NoHandle, domain.ErrInvalidGeometry)

	require.Equal(t, domain.MsgStartup, h.recv(t).Type)
	h.send(t, domain.MsgEvaluate, domain.EvaluatePayload{Code: "r = -1\nSphere(r)"})

	assert.Equal(t, domain.MsgProgress, h.recv(t).Type)
	assert.Equal(t, domain.MsgResetWorking, h.recv(t).Type)

	errMsg := h.recv(t)
	require.Equal(t, domain.MsgError, errMsg.Type)
	payload, err := protocol.Decode[domain.ErrorPayload](errMsg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "Sphere", payload.Operation)
	assert.Equal(t, 2, payload.Line)
	assert.NotEmpty(t, payload.Session)

	echo := h.recv(t)
	require.Equal(t, domain.MsgEvaluate, echo.Type)
	res, err := protocol.Decode[domain.EvaluateResult](echo.Payload)
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, payload.Session, res.Session)

	// Nothing was accumulated, so a render echoes nothing.
	h.send(t, domain.MsgCombineAndRender, nil)
	h.send(t, domain.MsgStats, nil)
	assert.Equal(t, domain.MsgStats, h.recv(t).Type)
}

func TestWorker_IgnoresUnregistered(t *testing.T) {
	h := startWorker(t)
	require.Equal(t, domain.MsgStartup, h.recv(t).Type)

	h.send(t, "addWidget", map[string]any{"name": "x"})
	h.send(t, domain.MsgStats, nil)
	assert.Equal(t, domain.MsgStats, h.recv(t).Type)
}

func TestWorker_Shutdown(t *testing.T) {
	h := startWorker(t)
	require.Equal(t, domain.MsgStartup, h.recv(t).Type)

	h.send(t, domain.MsgShutdown, nil)
	assert.Equal(t, domain.MsgShutdown, h.recv(t).Type)
	require.NoError(t, <-h.done)
}

func TestWorker_HostCloses(t *testing.T) {
	h := startWorker(t)
	require.Equal(t, domain.MsgStartup, h.recv(t).Type)

	require.NoError(t, h.host.Close())
	require.NoError(t, <-h.done)
}

func TestWorker_KernelInitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	kernel := mocks.NewMockKernel(ctrl)
	initErr := errors.New("no license")
	kernel.EXPECT().Init(gomock.Any()).Return(initErr)

	w := protocol.NewWorker(kernel, session.New(kernel, nil, mocks.NewMockTracer(ctrl), nil), nil, mocks.NewMockLogger(ctrl))
	_, conn := protocol.Pipe()
	err := w.Serve(context.Background(), conn)
	require.ErrorIs(t, err, initErr)
}

func TestCall_ForwardsNotifications(t *testing.T) {
	h := startWorker(t)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 1, Z: 1}).Return(domain.Handle(1), nil)
	h.cube()

	var seen []string
	ctx := context.Background()
	require.NoError(t, protocol.AwaitReady(ctx, h.host, nil))
	msg, err := protocol.Call(ctx, h.host, domain.MsgEvaluate, domain.EvaluatePayload{Code: "Box(1,1,1)"},
		func(m domain.Message) { seen = append(seen, m.Type) })
	require.NoError(t, err)
	assert.Equal(t, domain.MsgEvaluate, msg.Type)
	assert.Equal(t, []string{domain.MsgProgress, domain.MsgProgress, domain.MsgResetWorking}, seen)
}
