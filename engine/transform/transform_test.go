package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmptyIsIdentity(t *testing.T) {
	assert.Equal(t, common.Ident4(), NewBuilder().Build())
}

func TestBuildPostMultipliesInInsertionOrder(t *testing.T) {
	b := NewBuilder().Translate(common.Vec3{1, 0, 0}).ScaleUniform(2)

	m := b.Build()
	p := m.MulVec4(common.Vec4{1, 1, 1, 1})

	// Scale applies first to the point, then the translation.
	assert.Equal(t, common.Vec4{3, 2, 2, 1}, p)
}

func TestBuildFromStartsAtSuppliedMatrix(t *testing.T) {
	base := common.TranslationMatrix(common.Vec3{0, 5, 0})
	m := NewBuilder().MoveX(1).BuildFrom(base)

	assert.Equal(t, common.TranslationMatrix(common.Vec3{1, 5, 0}), m)
}

func TestRotateYQuarterTurn(t *testing.T) {
	m := NewBuilder().RotateY(math32.Pi / 2).Build()
	p := m.MulVec4(common.Vec4{1, 0, 0, 1})

	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, -1, p[2], 1e-6)
}

func TestTypedMutation(t *testing.T) {
	b := NewBuilder().Translate(common.Vec3{}).RotateZ(0).Scale(common.Vec3{1, 1, 1})

	require.NoError(t, b.SetTranslation(0, common.Vec3{1, 2, 3}))
	require.NoError(t, b.SetRotation(1, 0.5))
	require.NoError(t, b.AddRotation(1, 0.25))
	require.NoError(t, b.SetScale(2, common.Vec3{2, 2, 2}))

	s, err := b.At(0)
	require.NoError(t, err)
	assert.Equal(t, common.Vec3{1, 2, 3}, s.Vector)
	s, _ = b.At(1)
	assert.Equal(t, float32(0.75), s.Angle)
	assert.Equal(t, common.Vec3{0, 0, 1}, s.Axis)
	assert.Equal(t, 3, b.Len())
}

func TestMutationErrors(t *testing.T) {
	b := NewBuilder().Translate(common.Vec3{}).ScaleUniform(0.2)

	assert.ErrorIs(t, b.SetRotation(0, 1), ErrKindMismatch)
	assert.ErrorIs(t, b.SetTranslation(1, common.Vec3{}), ErrKindMismatch)
	assert.ErrorIs(t, b.SetScale(2, common.Vec3{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, b.AddRotation(-1, 1), ErrIndexOutOfRange)
	_, err := b.At(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMustVariantsPanic(t *testing.T) {
	b := NewBuilder().RotateX(0)

	assert.Panics(t, func() { b.MustSetScale(0, common.Vec3{}) })
	assert.Panics(t, func() { b.MustSetTranslation(3, common.Vec3{}) })
	assert.NotPanics(t, func() { b.MustAddRotation(0, 1) })
	assert.NotPanics(t, func() { b.MustSetRotation(0, 2) })
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBuilder().MoveY(1)
	c := b.Clone()
	c.MustSetTranslation(0, common.Vec3{0, 9, 0})

	s, _ := b.At(0)
	assert.Equal(t, common.Vec3{0, 1, 0}, s.Vector)
}

func TestOrderMatters(t *testing.T) {
	v := common.Vec3{1, 2, 3}
	a := NewBuilder().Translate(v).ScaleUniform(2).Build()
	b := NewBuilder().ScaleUniform(2).Translate(v).Build()

	assert.NotEqual(t, a, b)
}
