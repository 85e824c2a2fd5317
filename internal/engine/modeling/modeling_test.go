package modeling_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/core/ports"
	"go.trai.ch/carve/internal/core/ports/mocks"
	"go.trai.ch/carve/internal/engine/modeling"
	"go.trai.ch/carve/internal/engine/opcache"
	"go.trai.ch/carve/internal/engine/scene"
	"go.trai.ch/carve/internal/engine/script"
	"go.uber.org/mock/gomock"
)

type notification struct {
	Type    string
	Payload any
}

type harness struct {
	kernel *mocks.MockKernel
	cache  *opcache.Cache
	scene  *scene.Accumulator
	exec   *opcache.Execution
	gui    domain.GUIState
	sent   []notification
	ctx    *modeling.Context
}

func setup(t *testing.T, gui domain.GUIState) *harness {
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

	if gui == nil {
		gui = domain.GUIState{}
	}
	h := &harness{
		kernel: mocks.NewMockKernel(ctrl),
		scene:  scene.New(),
		gui:    gui,
	}
	h.cache = opcache.New(h.kernel, tracer)
	h.exec = &opcache.Execution{
		Usage:    opcache.NewUsageSet(),
		Progress: opcache.NewProgress(nil),
		Caching:  gui.CachingEnabled(),
	}
	h.ctx = modeling.NewContext(context.Background(), h.kernel, h.cache, h.scene, h.exec, gui,
		func(msgType string, payload any) {
			h.sent = append(h.sent, notification{msgType, payload})
		})
	return h
}

func (h *harness) run(src string) error {
	in := script.New(h.ctx.Library(), nil)
	in.OnCall(func(name string, at script.Pos) {
		h.ctx.SetPosition(name, at.Line, at.Column)
	})
	return in.Run(src)
}

func TestBox_TwiceBuildsOnce(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 1, Z: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Duplicate(domain.Handle(1)).Return(domain.Handle(2), nil)

	require.NoError(t, h.run("Box(1,1,1)\nBox(1,1,1)"))

	shapes := h.scene.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, shapes[0].Signature, shapes[1].Signature)
	assert.NotEqual(t, shapes[0].Handle, shapes[1].Handle)
	assert.Equal(t, 2, h.exec.Progress.Count())
}

func TestBox_CachingDisabledBuildsEveryTime(t *testing.T) {
	h := setup(t, domain.GUIState{domain.CacheToggle: false})
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 1, Z: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 1, Z: 1}).Return(domain.Handle(2), nil)

	require.NoError(t, h.run("Box(1,1,1)\nBox(1,1,1)"))
	assert.Equal(t, 2, h.scene.Len())
	assert.Equal(t, 0, h.cache.Len())
}

func TestDifference_ConsumesInputs(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 10, Y: 10, Z: 10, Centered: true}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 6}).Return(domain.Handle(2), nil)
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.DifferenceOp{})).Return(domain.Handle(3), nil)

	require.NoError(t, h.run("Difference(Box(10, 10, 10, true), [Sphere(6)])"))

	shapes := h.scene.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, domain.Handle(3), shapes[0].Handle)
}

func TestUnion_KeepObjects(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 2}).Return(domain.Handle(2), nil)
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.UnionOp{})).Return(domain.Handle(3), nil)

	require.NoError(t, h.run("a = Sphere(1)\nb = Sphere(2)\nUnion([a, b], true)"))
	assert.Equal(t, 3, h.scene.Len())
}

func TestDifference_FailingNestedCall(t *testing.T) {
	h := setup(t, nil)
	kernelErr := errors.New("sphere construction failed")
	h.kernel.EXPECT().Build(domain.BoxOp{X: 10, Y: 10, Z: 10}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 5}).Return(domain.NoHandle, kernelErr)

	err := h.run("// part\nDifference(Box(10,10,10), [Sphere(5)])")
	require.Error(t, err)

	var evalErr *domain.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Sphere", evalErr.Operation)
	assert.Equal(t, 2, evalErr.Line)
	assert.ErrorIs(t, err, kernelErr)
	assert.Equal(t, 1, h.cache.Len(), "only the box is cached")
}

func TestTranslate_SingleAndList(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.TranslateOp{})).Return(domain.Handle(2), nil)
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.TranslateOp{})).Return(domain.Handle(3), nil)

	src := "s = Translate([1, 0, 0], Sphere(1))\nPrint(s)\nt = Translate([0, 1], [s])\nPrint(t)"
	require.NoError(t, h.run(src))

	require.Len(t, h.sent, 2)
	single := h.sent[0].Payload.(domain.LogPayload).Message
	list := h.sent[1].Payload.(domain.LogPayload).Message
	assert.Regexp(t, `^Shape#-?\d+$`, single)
	assert.Regexp(t, `^\[Shape#-?\d+\]$`, list)

	shapes := h.scene.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, domain.Handle(3), shapes[0].Handle)
}

func TestRevolve_Defaults(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.CircleOp{Radius: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Build(gomock.Cond(func(op any) bool {
		r, ok := op.(domain.RevolveOp)
		return ok && r.Degrees == 360 && r.Axis == domain.Vec3{0, 0, 1}
	})).Return(domain.Handle(2), nil)

	require.NoError(t, h.run("Revolve(Circle(1))"))
}

func TestRotate_ZeroAxis(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 1}).Return(domain.Handle(1), nil)

	err := h.run("Rotate([0, 0, 0], 45, Sphere(1))")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	var evalErr *domain.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "Rotate", evalErr.Operation)
}

func TestArguments_Validation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		op   string
	}{
		{"wrong type", `Box("a", 1, 1)`, "Box"},
		{"missing", "Sphere()", "Sphere"},
		{"bad vector", "Translate([1], [])", "Translate"},
		{"bad edge index", "FilletEdges(Polygon([[0,0],[1,0],[0,1]]), 1, [0.5])", "FilletEdges"},
		{"too few points", "Polygon([[0,0],[1,0]])", "Polygon"},
		{"loft one wire", "Loft([])", "Loft"},
		{"intersection of one", "Intersection([])", "Intersection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t, nil)
			h.kernel.EXPECT().Build(gomock.Any()).Return(domain.Handle(1), nil).AnyTimes()

			err := h.run(tt.src)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
			var evalErr *domain.EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tt.op, evalErr.Operation)
		})
	}
}

func TestSketch_CachedAsOneOperation(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.PolygonOp{
		Points: []domain.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}},
	}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Duplicate(domain.Handle(1)).Return(domain.Handle(2), nil)

	src := "Sketch([0,0]).LineTo([2,0])\n  .LineTo([2,2])\n  .LineTo([0,0])\n  .End(true)\n" +
		"Sketch([0,0]).LineTo([2,0]).LineTo([2,2]).LineTo([0,0]).End(true)"
	require.NoError(t, h.run(src))

	shapes := h.scene.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, shapes[0].Signature, shapes[1].Signature)
	assert.Equal(t, 1, h.cache.Len())
	assert.Equal(t, 2, h.exec.Progress.Count())
}

func TestSketch_Trail(t *testing.T) {
	h := setup(t, nil)
	s := h.ctx.Sketch([2]float64{0, 0}).LineTo([2]float64{1, 0}).Fillet(0.1)
	assert.Equal(t, "Sketch[[0,0]]LineTo[[1,0]]Fillet[0.1]", s.Trail())
}

func TestSketch_ArcAndFillet(t *testing.T) {
	h := setup(t, nil)
	var built domain.PolygonOp
	h.kernel.EXPECT().Build(gomock.AssignableToTypeOf(domain.PolygonOp{})).DoAndReturn(
		func(op domain.Op) (domain.Handle, error) {
			built = op.(domain.PolygonOp)
			return domain.Handle(1), nil
		},
	)

	src := "Sketch([0,0]).LineTo([4,0]).Fillet(1).ArcTo([5,1],[4,2]).LineTo([0,2]).End(true)"
	require.NoError(t, h.run(src))

	// The fillet replaces one corner with 9 points and the arc adds 16.
	assert.Len(t, built.Points, 1+9+16+1)
	assert.False(t, built.Wire)
	for _, p := range built.Points {
		assert.InDelta(t, 0, p[2], 1e-12)
	}
}

func TestSketch_OpenEndIsWire(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.PolygonOp{
		Points: []domain.Vec3{{0, 0, 0}, {1, 0, 0}},
		Wire:   true,
	}).Return(domain.Handle(1), nil)

	require.NoError(t, h.run("Sketch([0,0]).LineTo([1,0]).End()"))
}

func TestSketch_CollinearArc(t *testing.T) {
	h := setup(t, nil)
	err := h.run("Sketch([0,0]).ArcTo([1,0],[2,0]).End(true)")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGUI_InstallsDefaults(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 5}).Return(domain.Handle(1), nil)

	src := `Sphere(Slider("Radius", 5, 1, 10))
Checkbox("Hollow", true)
TextInput("Label", "hi")
Dropdown("Style", "a", ["a", "b"])
Button("Go")`
	require.NoError(t, h.run(src))

	assert.InDelta(t, 5.0, h.gui["Radius"], 0)
	assert.Equal(t, true, h.gui["Hollow"])
	assert.Equal(t, "hi", h.gui["Label"])
	assert.Equal(t, "a", h.gui["Style"])

	types := make([]string, len(h.sent))
	for i, n := range h.sent {
		types[i] = n.Type
	}
	assert.Equal(t, []string{
		domain.MsgAddSlider, domain.MsgAddCheckbox, domain.MsgAddTextbox,
		domain.MsgAddDropdown, domain.MsgAddButton,
	}, types)
	assert.Equal(t, domain.SliderPayload{
		Name: "Radius", Default: 5, Min: 1, Max: 10, Step: 1, Precision: 2,
	}, h.sent[0].Payload)
}

func TestGUI_UsesCurrentValue(t *testing.T) {
	h := setup(t, domain.GUIState{"Radius": 7.0, "Go": true})
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 7}).Return(domain.Handle(1), nil)

	require.NoError(t, h.run(`pressed = Button("Go")
Print(pressed)
Sphere(Slider("Radius", 5, 1, 10))`))
	assert.Equal(t, domain.LogPayload{Message: "true"}, h.sent[1].Payload)
}

func TestGUI_CoercesOverrides(t *testing.T) {
	h := setup(t, domain.GUIState{
		"Radius": "7",
		"Hollow": "false",
		"Label":  42.0,
		"Style":  "b",
	})
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 7}).Return(domain.Handle(1), nil)

	require.NoError(t, h.run(`Sphere(Slider("Radius", 5, 1, 10))
Print(Checkbox("Hollow", true))
Print(TextInput("Label", "hi"))
Print(Dropdown("Style", "a", ["a", "b"]))`))

	assert.Equal(t, domain.GUIState{"Radius": 7.0, "Hollow": false, "Label": "42", "Style": "b"}, h.gui)
	var printed []string
	for _, n := range h.sent {
		if p, ok := n.Payload.(domain.LogPayload); ok {
			printed = append(printed, p.Message)
		}
	}
	assert.Equal(t, []string{"false", "42", "b"}, printed)
}

func TestGUI_WarnsOnUnusableValue(t *testing.T) {
	h := setup(t, domain.GUIState{"Radius": "wide", "Style": "c"})
	h.kernel.EXPECT().Build(domain.SphereOp{Radius: 5}).Return(domain.Handle(1), nil)

	require.NoError(t, h.run(`Sphere(Slider("Radius", 5, 1, 10))
Dropdown("Style", "a", ["a", "b"])`))

	assert.InDelta(t, 5.0, h.gui["Radius"], 0)
	assert.Equal(t, "a", h.gui["Style"])
	require.Len(t, h.sent, 4)
	assert.Equal(t, domain.MsgLog, h.sent[0].Type)
	assert.Contains(t, h.sent[0].Payload.(domain.LogPayload).Message, `control "Radius" cannot use value wide`)
	assert.Equal(t, domain.MsgAddSlider, h.sent[1].Type)
	assert.Contains(t, h.sent[2].Payload.(domain.LogPayload).Message, `control "Style" cannot use value c`)
}

func TestEdges(t *testing.T) {
	h := setup(t, nil)
	h.kernel.EXPECT().Build(domain.BoxOp{X: 1, Y: 1, Z: 1}).Return(domain.Handle(1), nil)
	h.kernel.EXPECT().Explore(domain.Handle(1)).Return(domain.Topology{
		Kind:  domain.KindSolid,
		Edges: make([]domain.Edge, 12),
	}, nil)

	require.NoError(t, h.run(`Print("edges:", Edges(Box(1,1,1)))`))
	require.Len(t, h.sent, 1)
	assert.Equal(t, domain.LogPayload{Message: "edges: 12"}, h.sent[0].Payload)
}
