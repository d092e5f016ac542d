package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/chewxy/math32"
)

const (
	maxPitch = 89.0
	minPitch = -89.0
)

// Properties is the payload a Camera publishes after every change.
type Properties struct {
	View      common.Mat4
	Position  common.Vec3
	Direction common.Vec3
}

type cameraImpl struct {
	eye         common.Vec3
	up          common.Vec3
	yaw         float32
	pitch       float32
	sensitivity float32
	direction   common.Vec3
	view        common.Mat4

	firstMouse bool
	prevX      float64
	prevY      float64

	projection Projection
	channel    *observable.Observable[Properties]
}

// Camera is a first-person camera defined by an eye position and yaw/pitch angles in degrees.
// Every mutator recomputes the direction and view matrix and then publishes Properties exactly
// once on the camera's channel.
type Camera interface {
	// MoveForward moves the eye along the view direction.
	//
	// Parameters:
	//   - distance: world units to move
	MoveForward(distance float32)

	// MoveBack moves the eye against the view direction.
	//
	// Parameters:
	//   - distance: world units to move
	MoveBack(distance float32)

	// MoveLeft strafes the eye to the left of the view direction.
	//
	// Parameters:
	//   - distance: world units to move
	MoveLeft(distance float32)

	// MoveRight strafes the eye to the right of the view direction.
	//
	// Parameters:
	//   - distance: world units to move
	MoveRight(distance float32)

	// SetPosition places the eye.
	//
	// Parameters:
	//   - position: the world-space eye position
	SetPosition(position common.Vec3)

	// SetYaw sets the yaw in degrees, wrapped into [0, 360).
	//
	// Parameters:
	//   - degrees: the yaw
	SetYaw(degrees float32)

	// SetPitch sets the pitch in degrees, clamped to [-89, 89].
	//
	// Parameters:
	//   - degrees: the pitch
	SetPitch(degrees float32)

	// OnMouseMove turns the camera by the cursor movement since the previous call, scaled by the
	// sensitivity. The first call after construction or ResetMouse only records the position.
	//
	// Parameters:
	//   - x, y: the cursor position in window coordinates
	OnMouseMove(x, y float64)

	// ResetMouse makes the next OnMouseMove a reference-only event.
	ResetMouse()

	// SetSensitivity sets the degrees turned per pixel of cursor movement.
	//
	// Parameters:
	//   - sensitivity: the new sensitivity
	SetSensitivity(sensitivity float32)

	// Sensitivity returns the degrees turned per pixel of cursor movement.
	//
	// Returns:
	//   - float32: the sensitivity
	Sensitivity() float32

	// Position returns the eye position.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Position() common.Vec3

	// Direction returns the normalized view direction.
	//
	// Returns:
	//   - common.Vec3: the direction
	Direction() common.Vec3

	// Yaw returns the yaw in degrees.
	//
	// Returns:
	//   - float32: the yaw
	Yaw() float32

	// Pitch returns the pitch in degrees.
	//
	// Returns:
	//   - float32: the pitch
	Pitch() float32

	// View returns the current view matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	View() common.Mat4

	// Properties returns the last published payload.
	//
	// Returns:
	//   - Properties: view matrix, eye position and direction
	Properties() Properties

	// Channel returns the camera's channel for observers that need a subscription handle.
	//
	// Returns:
	//   - *observable.Observable[Properties]: the channel
	Channel() *observable.Observable[Properties]

	// Attach registers an observer on the camera's channel. It receives the current
	// Properties immediately.
	//
	// Parameters:
	//   - o: the observer
	//
	// Returns:
	//   - *observable.Subscription[Properties]: the handle used to detach o
	Attach(o observable.Observer[Properties]) *observable.Subscription[Properties]

	// Projection returns the projection owned by this camera.
	//
	// Returns:
	//   - Projection: the projection
	Projection() Projection

	// Close detaches the projection from the window size channel.
	Close()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at (-3, 3, -3) looking along +X with a default Projection and
// publishes its initial Properties.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		eye:         common.Vec3{-3, 3, -3},
		up:          common.Vec3{0, 1, 0},
		sensitivity: 0.1,
		firstMouse:  true,
	}
	for _, option := range options {
		option(c)
	}
	if c.projection == nil {
		c.projection = NewProjection()
	}
	c.recalculate()
	c.channel = observable.New(c.Properties())
	return c
}

func (c *cameraImpl) MoveForward(distance float32) {
	c.eye = c.eye.Add(c.direction.Scale(distance))
	c.handleChange()
}

func (c *cameraImpl) MoveBack(distance float32) {
	c.eye = c.eye.Sub(c.direction.Scale(distance))
	c.handleChange()
}

func (c *cameraImpl) MoveLeft(distance float32) {
	c.eye = c.eye.Sub(c.right().Scale(distance))
	c.handleChange()
}

func (c *cameraImpl) MoveRight(distance float32) {
	c.eye = c.eye.Add(c.right().Scale(distance))
	c.handleChange()
}

func (c *cameraImpl) right() common.Vec3 {
	return c.direction.Cross(c.up).Normalize()
}

func (c *cameraImpl) SetPosition(position common.Vec3) {
	c.eye = position
	c.handleChange()
}

func (c *cameraImpl) SetYaw(degrees float32) {
	c.yaw = degrees
	c.handleChange()
}

func (c *cameraImpl) SetPitch(degrees float32) {
	c.pitch = degrees
	c.handleChange()
}

func (c *cameraImpl) OnMouseMove(x, y float64) {
	if c.firstMouse {
		c.prevX, c.prevY = x, y
		c.firstMouse = false
		return
	}
	dx := float32(x - c.prevX)
	dy := float32(c.prevY - y)
	c.prevX, c.prevY = x, y
	c.yaw += dx * c.sensitivity
	c.pitch += dy * c.sensitivity
	c.handleChange()
}

func (c *cameraImpl) ResetMouse() {
	c.firstMouse = true
}

func (c *cameraImpl) SetSensitivity(sensitivity float32) {
	c.sensitivity = sensitivity
}

func (c *cameraImpl) Sensitivity() float32 {
	return c.sensitivity
}

func (c *cameraImpl) Position() common.Vec3 {
	return c.eye
}

func (c *cameraImpl) Direction() common.Vec3 {
	return c.direction
}

func (c *cameraImpl) Yaw() float32 {
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	return c.pitch
}

func (c *cameraImpl) View() common.Mat4 {
	return c.view
}

func (c *cameraImpl) Properties() Properties {
	return Properties{View: c.view, Position: c.eye, Direction: c.direction}
}

func (c *cameraImpl) Channel() *observable.Observable[Properties] {
	return c.channel
}

func (c *cameraImpl) Attach(o observable.Observer[Properties]) *observable.Subscription[Properties] {
	return c.channel.Attach(o)
}

func (c *cameraImpl) Projection() Projection {
	return c.projection
}

func (c *cameraImpl) Close() {
	c.projection.Close()
}

func (c *cameraImpl) handleChange() {
	c.recalculate()
	c.channel.Notify(c.Properties())
}

// recalculate normalizes the angles and derives direction and view from them.
func (c *cameraImpl) recalculate() {
	c.pitch = common.Clamp(c.pitch, minPitch, maxPitch)
	c.yaw = math32.Mod(c.yaw, 360)
	if c.yaw < 0 {
		c.yaw += 360
	}

	yaw, pitch := common.Radians(c.yaw), common.Radians(c.pitch)
	c.direction = common.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.view = common.LookAtMatrix(c.eye, c.eye.Add(c.direction), c.up)
}
