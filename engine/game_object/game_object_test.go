package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.Equal(t, common.Ident4(), a.ModelMatrix())
	assert.Zero(t, a.SpinSpeed())
	a.Update(1)
	assert.Equal(t, common.Ident4(), a.ModelMatrix())
}

func TestBoundingSphereFollowsTransform(t *testing.T) {
	g := NewGameObject(
		WithTransform(transform.NewBuilder().MoveX(4).ScaleUniform(2)),
		WithBounds(Sphere{Center: common.Vec3{0, 1, 0}, Radius: 1.5}),
	)

	s := g.BoundingSphere()
	assert.InDelta(t, 4, s.Center[0], 1e-5)
	assert.InDelta(t, 2, s.Center[1], 1e-5)
	assert.InDelta(t, 3, s.Radius, 1e-5)
}

func TestSpinAdvancesRotationStep(t *testing.T) {
	g := NewGameObject(
		WithTransform(transform.NewBuilder().MoveY(1).RotateY(0)),
		WithSpin(1, 2),
	)

	g.Update(0.5)
	g.Update(0.25)
	step, err := g.Transform().At(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, step.Angle, 1e-6)
	assert.Equal(t, float32(2), g.SpinSpeed())
}

func TestSpinOnNonRotationPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewGameObject(WithTransform(transform.NewBuilder().MoveX(1)), WithSpin(0, 1))
	})
}

func TestOptions(t *testing.T) {
	g := NewGameObject(WithID(42), WithEnabled(false), WithMesh(7))
	assert.Equal(t, uint64(42), g.ID())
	assert.False(t, g.Enabled())
	assert.EqualValues(t, 7, g.Mesh())
	g.SetEnabled(true)
	assert.True(t, g.Enabled())
}
