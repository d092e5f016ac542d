package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionResizeKeepsVerticalTerm(t *testing.T) {
	sizes := observable.New(common.Size{Width: 800, Height: 600})
	p := NewProjection()
	p.AttachTo(sizes)
	defer p.Close()

	before := p.Matrix()
	sizes.Notify(common.Size{Width: 1600, Height: 900})
	after := p.Matrix()

	f := 1 / math32.Tan(common.Radians(30))
	assert.InDelta(t, f, before[5], eps)
	assert.InDelta(t, f, after[5], eps)
	assert.InDelta(t, f/(800.0/600.0), before[0], eps)
	assert.InDelta(t, f/(1600.0/900.0), after[0], eps)
	assert.InDelta(t, (1600.0/900.0)/(800.0/600.0), before[0]/after[0], eps)
}

func TestProjectionMatrixPanicsWithoutSize(t *testing.T) {
	p := NewProjection()

	assert.Panics(t, func() { p.Matrix() })
	assert.Equal(t, common.Mat4{}, p.Channel().Last())
}

func TestProjectionPublishesOnChange(t *testing.T) {
	p := NewProjection(WithSize(common.Size{Width: 100, Height: 100}))
	var published []common.Mat4
	p.Channel().AttachFunc(func(m common.Mat4) { published = append(published, m) })
	require.Len(t, published, 1)

	p.SetFov(90)
	require.Len(t, published, 2)
	assert.InDelta(t, 1, published[1][5], eps)

	p.SetMaxDistance(50)
	require.Len(t, published, 3)
	assert.Equal(t, float32(50), p.Far())
}

func TestProjectionDoubleAttachPanics(t *testing.T) {
	sizes := observable.New(common.Size{Width: 1, Height: 1})
	p := NewProjection()
	p.AttachTo(sizes)

	assert.Panics(t, func() { p.AttachTo(sizes) })

	p.Close()
	assert.NotPanics(t, func() { p.Close() })
}
