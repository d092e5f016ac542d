package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
)

type fakeInput struct {
	pressed map[common.Key]bool
	x, y    float64
}

func (f *fakeInput) IsPressed(key common.Key) bool {
	return f.pressed[key]
}

func (f *fakeInput) MousePosition() (float64, float64) {
	return f.x, f.y
}

func TestControllerDefaultSteps(t *testing.T) {
	cam := NewCamera()
	ctrl := NewController(cam, &fakeInput{})

	assert.Equal(t, 5, ctrl.SensitivityStep())
	assert.Equal(t, 10, ctrl.WalkingStep())
	assert.InDelta(t, 0.02+0.23*5.0/20.0, cam.Sensitivity(), eps)
	assert.InDelta(t, 0.02+0.23*10.0/20.0, ctrl.WalkingSpeed(), eps)
}

func TestControllerStepsAreClamped(t *testing.T) {
	cam := NewCamera()
	ctrl := NewController(cam, &fakeInput{}, WithWalkingStep(40))

	assert.Equal(t, SpeedSteps, ctrl.WalkingStep())
	assert.InDelta(t, 0.25, ctrl.WalkingSpeed(), eps)

	ctrl.SetSensitivityStep(-3)
	assert.Equal(t, 0, ctrl.SensitivityStep())
	assert.InDelta(t, 0.02, cam.Sensitivity(), eps)
}

func TestControllerWalksScaledByDelta(t *testing.T) {
	cam := NewCamera(WithPosition(common.Vec3{0, 0, 0}), WithAngles(270, 0))
	in := &fakeInput{pressed: map[common.Key]bool{common.KeyW: true}}
	ctrl := NewController(cam, in, WithWalkingStep(SpeedSteps))

	ctrl.Update(1.0 / 60.0)

	assertVec3(t, common.Vec3{0, 0, -0.25}, cam.Position())
}

func TestControllerForwardsMouseOnlyOnChange(t *testing.T) {
	cam := NewCamera()
	in := &fakeInput{x: 10, y: 10}
	ctrl := NewController(cam, in)
	var events int
	cam.Channel().AttachFunc(func(Properties) { events++ })
	events = 0

	ctrl.Update(0)
	assert.Equal(t, 0, events)

	in.x = 20
	ctrl.Update(0)
	// First forwarded event only records the reference point.
	assert.Equal(t, 0, events)

	in.x = 30
	ctrl.Update(0)
	assert.Equal(t, 1, events)
	assert.Greater(t, cam.Yaw(), float32(0))
}
