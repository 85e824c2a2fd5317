package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/carve/internal/engine/scene"
)

func TestAccumulator_AddKeepsOrder(t *testing.T) {
	acc := scene.New()
	a := domain.Shape{Handle: 1, Signature: 10}
	b := domain.Shape{Handle: 2, Signature: 20}

	acc.Add(a)
	acc.Add(b)

	assert.Equal(t, []domain.Shape{a, b}, acc.Shapes())
	assert.Equal(t, 2, acc.Len())
}

func TestAccumulator_RemoveMatchesHandleAndSignature(t *testing.T) {
	acc := scene.New()
	first := domain.Shape{Handle: 1, Signature: 10}
	collided := domain.Shape{Handle: 2, Signature: 10}
	acc.Add(first)
	acc.Add(collided)

	assert.False(t, acc.Remove(domain.Shape{Handle: 3, Signature: 10}))
	assert.False(t, acc.Remove(domain.Shape{Handle: 1, Signature: 11}))
	assert.True(t, acc.Remove(collided))

	assert.Equal(t, []domain.Shape{first}, acc.Shapes())
}

func TestAccumulator_RemoveAll(t *testing.T) {
	acc := scene.New()
	shapes := []domain.Shape{{Handle: 1, Signature: 1}, {Handle: 2, Signature: 2}, {Handle: 3, Signature: 3}}
	for _, s := range shapes {
		acc.Add(s)
	}

	acc.RemoveAll(shapes[:2])

	assert.Equal(t, shapes[2:], acc.Shapes())
}

func TestAccumulator_Reset(t *testing.T) {
	acc := scene.New()
	acc.Add(domain.Shape{Handle: 1})

	acc.Reset()

	assert.Empty(t, acc.Shapes())
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_ShapesIsACopy(t *testing.T) {
	acc := scene.New()
	acc.Add(domain.Shape{Handle: 1, Signature: 1})

	out := acc.Shapes()
	out[0] = domain.Shape{Handle: 9}

	assert.Equal(t, domain.Handle(1), acc.Shapes()[0].Handle)
}
