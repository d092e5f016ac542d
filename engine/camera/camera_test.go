package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

type propertiesRecorder struct {
	received []Properties
}

func (r *propertiesRecorder) Update(p Properties) {
	r.received = append(r.received, p)
}

func assertVec3(t *testing.T, expected, actual common.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], eps, "component %d", i)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assertVec3(t, common.Vec3{-3, 3, -3}, c.Position())
	assertVec3(t, common.Vec3{1, 0, 0}, c.Direction())
	assert.Equal(t, float32(0), c.Yaw())
	assert.Equal(t, float32(0), c.Pitch())
	assert.Equal(t, c.Properties(), c.Channel().Last())
}

func TestMoveForwardPublishesOnce(t *testing.T) {
	c := NewCamera(WithPosition(common.Vec3{0, 0, 5}), WithAngles(270, 0))
	rec := &propertiesRecorder{}
	c.Attach(rec)
	require.Len(t, rec.received, 1)

	c.MoveForward(1)

	require.Len(t, rec.received, 2)
	last := rec.received[1]
	assertVec3(t, common.Vec3{0, 0, 4}, last.Position)
	expected := common.LookAtMatrix(common.Vec3{0, 0, 4}, common.Vec3{0, 0, 3}, common.Vec3{0, 1, 0})
	assert.True(t, expected.ApproxEqual(last.View, eps), "view %v, expected %v", last.View, expected)
}

func TestMoveBackLeftRight(t *testing.T) {
	c := NewCamera(WithPosition(common.Vec3{0, 0, 0}), WithAngles(270, 0))

	c.MoveBack(2)
	assertVec3(t, common.Vec3{0, 0, 2}, c.Position())

	// Looking down -Z, right is +X.
	c.MoveRight(1)
	assertVec3(t, common.Vec3{1, 0, 2}, c.Position())

	c.MoveLeft(3)
	assertVec3(t, common.Vec3{-2, 0, 2}, c.Position())
}

func TestPitchIsClamped(t *testing.T) {
	c := NewCamera()

	c.SetPitch(120)
	assert.Equal(t, float32(89), c.Pitch())

	c.SetPitch(-95)
	assert.Equal(t, float32(-89), c.Pitch())
}

func TestPitchClampHoldsUnderRepeatedMouseInput(t *testing.T) {
	c := NewCamera(WithSensitivity(0.5), WithAngles(90, 85))
	c.OnMouseMove(0, 0)

	y := -10.0
	c.OnMouseMove(0, y)
	require.Equal(t, float32(89), c.Pitch())
	dir := c.Direction()

	for range 50 {
		y -= 10
		c.OnMouseMove(0, y)
		assert.Equal(t, float32(89), c.Pitch())
		assert.Equal(t, dir, c.Direction())
	}

	c.OnMouseMove(0, y+4)
	assert.Equal(t, float32(89-4*0.5), c.Pitch())
}

func TestYawWraps(t *testing.T) {
	c := NewCamera()

	c.SetYaw(370)
	assert.InDelta(t, 10, c.Yaw(), eps)

	c.SetYaw(-30)
	assert.InDelta(t, 330, c.Yaw(), eps)
}

func TestFirstMouseEventOnlyRecordsReference(t *testing.T) {
	c := NewCamera(WithSensitivity(0.5))
	rec := &propertiesRecorder{}
	c.Attach(rec)

	c.OnMouseMove(100, 100)
	assert.Len(t, rec.received, 1)
	assert.Equal(t, float32(0), c.Yaw())

	c.OnMouseMove(110, 90)
	assert.Len(t, rec.received, 2)
	assert.InDelta(t, 5, c.Yaw(), eps)
	assert.InDelta(t, 5, c.Pitch(), eps)

	c.ResetMouse()
	c.OnMouseMove(500, 500)
	assert.InDelta(t, 5, c.Yaw(), eps)
}

func TestSetPositionPublishes(t *testing.T) {
	c := NewCamera()
	var last Properties
	sub := c.Channel().AttachFunc(func(p Properties) { last = p })
	defer sub.Detach()

	c.SetPosition(common.Vec3{1, 2, 3})

	assertVec3(t, common.Vec3{1, 2, 3}, last.Position)
}

func TestCloseDetachesProjection(t *testing.T) {
	sizes := observable.New(common.Size{Width: 800, Height: 600})
	c := NewCamera()
	c.Projection().AttachTo(sizes)
	require.Equal(t, 1, sizes.Len())

	c.Close()

	assert.Equal(t, 0, sizes.Len())
}
