package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

const (
	// SpeedSteps is the number of discrete steps for sensitivity and walking speed.
	SpeedSteps = 20

	minSensitivity = 0.02
	maxSensitivity = 0.25
	minWalkSpeed   = 0.02
	maxWalkSpeed   = 0.25

	// referenceFrameRate converts per-frame walking distances into per-second ones.
	referenceFrameRate = 60
)

// Input is the polled input state a Controller reads each frame.
type Input interface {
	// IsPressed reports whether key is held down.
	//
	// Parameters:
	//   - key: the key to test
	//
	// Returns:
	//   - bool: true while held
	IsPressed(key common.Key) bool

	// MousePosition returns the cursor position in window coordinates.
	//
	// Returns:
	//   - x, y: the cursor position
	MousePosition() (x, y float64)
}

type controllerImpl struct {
	camera      Camera
	input       Input
	sensitivity int
	walking     int
	walkSpeed   float32
	lastX       float64
	lastY       float64
}

// Controller drives a Camera from keyboard and mouse input in first-person style: WASD walks
// and cursor movement turns. Sensitivity and walking speed are chosen in steps 0..SpeedSteps
// that interpolate linearly between 0.02 and 0.25.
type Controller interface {
	// Update applies one frame of input. Held WASD keys move the camera by the walking speed
	// scaled by dt relative to 60 frames per second. The cursor is forwarded to the camera only
	// when it moved since the last Update.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Update(dt float32)

	// SensitivityStep returns the current sensitivity step.
	//
	// Returns:
	//   - int: the step in [0, SpeedSteps]
	SensitivityStep() int

	// SetSensitivityStep selects a sensitivity step, clamped to [0, SpeedSteps], and applies
	// the resulting sensitivity to the camera.
	//
	// Parameters:
	//   - step: the step
	SetSensitivityStep(step int)

	// WalkingStep returns the current walking speed step.
	//
	// Returns:
	//   - int: the step in [0, SpeedSteps]
	WalkingStep() int

	// SetWalkingStep selects a walking speed step, clamped to [0, SpeedSteps].
	//
	// Parameters:
	//   - step: the step
	SetWalkingStep(step int)

	// WalkingSpeed returns the distance walked per frame at 60 frames per second.
	//
	// Returns:
	//   - float32: the walking speed
	WalkingSpeed() float32

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller for cam reading from input. Defaults are sensitivity
// step 5 and walking step 10.
//
// Parameters:
//   - cam: the camera to drive
//   - input: the input source
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(cam Camera, input Input, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		camera:      cam,
		input:       input,
		sensitivity: 5,
		walking:     10,
	}
	for _, option := range options {
		option(c)
	}
	c.SetSensitivityStep(c.sensitivity)
	c.SetWalkingStep(c.walking)
	c.lastX, c.lastY = input.MousePosition()
	return c
}

func (c *controllerImpl) Update(dt float32) {
	distance := c.walkSpeed * dt * referenceFrameRate
	if c.input.IsPressed(common.KeyW) {
		c.camera.MoveForward(distance)
	}
	if c.input.IsPressed(common.KeyS) {
		c.camera.MoveBack(distance)
	}
	if c.input.IsPressed(common.KeyA) {
		c.camera.MoveLeft(distance)
	}
	if c.input.IsPressed(common.KeyD) {
		c.camera.MoveRight(distance)
	}

	x, y := c.input.MousePosition()
	if x != c.lastX || y != c.lastY {
		c.camera.OnMouseMove(x, y)
		c.lastX, c.lastY = x, y
	}
}

func (c *controllerImpl) SensitivityStep() int {
	return c.sensitivity
}

func (c *controllerImpl) SetSensitivityStep(step int) {
	c.sensitivity = clampStep(step)
	c.camera.SetSensitivity(stepValue(c.sensitivity, minSensitivity, maxSensitivity))
}

func (c *controllerImpl) WalkingStep() int {
	return c.walking
}

func (c *controllerImpl) SetWalkingStep(step int) {
	c.walking = clampStep(step)
	c.walkSpeed = stepValue(c.walking, minWalkSpeed, maxWalkSpeed)
}

func (c *controllerImpl) WalkingSpeed() float32 {
	return c.walkSpeed
}

func (c *controllerImpl) Camera() Camera {
	return c.camera
}

func clampStep(step int) int {
	return max(0, min(SpeedSteps, step))
}

func stepValue(step int, lo, hi float32) float32 {
	return common.Lerp(float32(step), 0, SpeedSteps, lo, hi)
}
