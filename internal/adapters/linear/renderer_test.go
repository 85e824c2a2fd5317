package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/adapters/linear"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_Success(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnEvaluationStart("/work/models/cup.carve", t0)
	r.OnOpStart(1, "Cylinder", t0)
	r.OnOpComplete(1, t0.Add(4*time.Millisecond))
	r.OnLog("wall = 2\n")
	r.OnOpStart(2, "Difference", t0.Add(4*time.Millisecond))
	r.OnOpComplete(2, t0.Add(10*time.Millisecond))
	r.OnEvaluationComplete(t0.Add(12*time.Millisecond), nil)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	assert.Equal(t, "wall = 2\n", stdout.String())
	goldie.New(t).Assert(t, "success", stderr.Bytes())
}

func TestRenderer_Failure(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnEvaluationStart("cup.carve", t0)
	r.OnOpStart(1, "Box", t0)
	r.OnOpComplete(1, t0.Add(time.Millisecond))
	r.OnOpStart(2, "FilletEdges", t0.Add(time.Millisecond))
	r.OnEvaluationComplete(t0.Add(3*time.Millisecond), errors.New("line 3: edge index 14 out of range"))

	goldie.New(t).Assert(t, "failure", stderr.Bytes())
}

func TestRenderer_UnknownOpIgnored(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnOpComplete(9, t0)

	assert.Empty(t, stderr.String())
}

func TestRenderer_RerunResetsCounters(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnEvaluationStart("a.carve", t0)
	r.OnOpStart(1, "Box", t0)
	r.OnOpComplete(1, t0)
	r.OnEvaluationComplete(t0, nil)
	stderr.Reset()

	r.OnEvaluationStart("a.carve", t0)
	r.OnEvaluationComplete(t0.Add(time.Second), nil)

	assert.Equal(t, "Evaluating a.carve\n✓ a.carve: 0 operation(s) in 1s\n", stderr.String())
}
